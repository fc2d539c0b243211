package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.Booking, error)
	ListByAgenda(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateGroupStatus(ctx context.Context, groupID uuid.UUID, from, to domain.BookingStatus) (int64, error)
}

// AgendaRepository интерфейс репозитория агенд
type AgendaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agenda, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier принимает события жизненного цикла бронирования
type Notifier interface {
	Publish(event domain.Event)
}

// Metrics счётчик смен статуса
type Metrics interface {
	IncStatusChange(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
