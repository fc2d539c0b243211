package settings

import "errors"

var (
	// ErrInvalidWebhookURL возвращается, когда адрес не проходит политику вебхуков
	ErrInvalidWebhookURL = errors.New("invalid webhook url")

	// ErrWebhookNotConfigured возвращается, когда адрес вебхука не задан
	ErrWebhookNotConfigured = errors.New("webhook not configured")

	// ErrWebhookDelivery возвращается, когда получатель не принял пробное уведомление
	ErrWebhookDelivery = errors.New("webhook delivery failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
