package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// AgendaRepository интерфейс репозитория агенд
type AgendaRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agenda, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Service, error)
}

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListWindows(ctx context.Context, agendaID uuid.UUID, day time.Weekday) ([]domain.AvailabilityWindow, error)
	GetLunchBreak(ctx context.Context, agendaID uuid.UUID) (*domain.LunchBreak, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListIntervals(ctx context.Context, agendaID uuid.UUID, date time.Time, statuses []domain.BookingStatus) ([]domain.Interval, error)
	CreateBatch(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier принимает события жизненного цикла бронирования, не блокируя вызывающего
type Notifier interface {
	Publish(event domain.Event)
}

// Metrics доменные счётчики бронирований
type Metrics interface {
	IncBookingsCreated(services string)
	IncSlotConflict(source string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
