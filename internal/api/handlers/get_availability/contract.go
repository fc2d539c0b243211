package get_availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

type AgendaService interface {
	GetAvailability(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
