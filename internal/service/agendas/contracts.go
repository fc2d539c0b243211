package agendas

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// AgendaRepository интерфейс репозитория агенд
type AgendaRepository interface {
	Create(ctx context.Context, agenda *domain.Agenda) (*domain.Agenda, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agenda, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Agenda, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Agenda, error)
	Update(ctx context.Context, agenda *domain.Agenda) (*domain.Agenda, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByAgenda(ctx context.Context, agendaID uuid.UUID) ([]domain.AvailabilityWindow, error)
	ReplaceWindows(ctx context.Context, agendaID uuid.UUID, windows []domain.AvailabilityWindow) error
	SetLunchBreak(ctx context.Context, agendaID uuid.UUID, lunch *domain.LunchBreak) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
