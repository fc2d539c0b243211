package get_webhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
)

type SettingsService interface {
	GetWebhook(ctx context.Context, ownerID uuid.UUID) (*models.WebhookResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
