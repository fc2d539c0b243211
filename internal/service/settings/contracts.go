package settings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*domain.Settings, error)
	UpsertWebhook(ctx context.Context, ownerID uuid.UUID, webhookURL *string) (*domain.Settings, error)
}

// URLValidator политика адресов вебхука
type URLValidator interface {
	Validate(rawURL string) error
}

// WebhookSender отправка JSON на адрес вебхука
type WebhookSender interface {
	Send(ctx context.Context, targetURL string, eventType string, payload interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
