package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// SetWebhookRequest запрос на сохранение адреса вебхука; пустая строка очищает адрес
type SetWebhookRequest struct {
	OwnerID    uuid.UUID `json:"-"`
	WebhookURL string    `json:"webhook_url"`
}

// WebhookResponse текущий адрес вебхука владельца
type WebhookResponse struct {
	WebhookURL *string    `json:"webhook_url"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// FromDomainSettings конвертирует domain настройки в DTO
func FromDomainSettings(s *domain.Settings) *WebhookResponse {
	if s == nil {
		return &WebhookResponse{}
	}

	updatedAt := s.UpdatedAt
	return &WebhookResponse{
		WebhookURL: s.WebhookURL,
		UpdatedAt:  &updatedAt,
	}
}
