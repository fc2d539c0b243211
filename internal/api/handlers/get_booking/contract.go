package get_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.BookingDetailResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
