package delete_agenda

import (
	"context"

	"github.com/google/uuid"
)

type AgendaService interface {
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
