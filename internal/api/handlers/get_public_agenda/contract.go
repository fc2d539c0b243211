package get_public_agenda

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

type AgendaService interface {
	GetPublic(ctx context.Context, slug string) (*models.PublicAgendaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
