package set_webhook

import (
	"context"

	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
)

type SettingsService interface {
	SetWebhook(ctx context.Context, req *models.SetWebhookRequest) (*models.WebhookResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
