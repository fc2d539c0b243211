package create_agenda

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

type AgendaService interface {
	Create(ctx context.Context, req *models.CreateAgendaRequest) (*models.AgendaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
