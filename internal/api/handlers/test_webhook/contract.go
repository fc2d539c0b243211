package test_webhook

import (
	"context"

	"github.com/google/uuid"
)

type SettingsService interface {
	TestWebhook(ctx context.Context, ownerID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
