package notifier

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.Booking, error)
}

// AgendaRepository интерфейс репозитория агенд
type AgendaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agenda, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Service, error)
}

// WebhookSettings источник адреса вебхука владельца
type WebhookSettings interface {
	WebhookURL(ctx context.Context, ownerID uuid.UUID) (*string, error)
}

// Sink получатель уведомлений
type Sink interface {
	Name() string
	Deliver(ctx context.Context, delivery *Delivery) error
}

// Metrics счётчик исходов доставки
type Metrics interface {
	IncNotification(sink, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
