package list_agendas

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

type AgendaService interface {
	List(ctx context.Context, ownerID uuid.UUID) (*models.AgendaListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
