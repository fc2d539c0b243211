package test_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgNotConfigured   = "адрес вебхука не задан"
	msgDeliveryFailed  = "получатель вебхука не принял пробное уведомление"
	codeDeliveryFailed = "webhook_delivery_failed"
	codeNotConfigured  = "webhook_not_configured"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/settings/webhook/test
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /settings/webhook/test - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.TestWebhook(r.Context(), ownerID); err != nil {
		switch {
		case errors.Is(err, settings.ErrWebhookNotConfigured):
			h.logger.Warn("POST /settings/webhook/test - Webhook not configured: owner_id=%s", ownerID)
			handlers.RespondErrorWithCode(w, http.StatusBadRequest, codeNotConfigured, msgNotConfigured)

		case errors.Is(err, settings.ErrWebhookDelivery):
			h.logger.Warn("POST /settings/webhook/test - Delivery failed: owner_id=%s: %v", ownerID, err)
			handlers.RespondErrorWithCode(w, http.StatusBadGateway, codeDeliveryFailed, msgDeliveryFailed)

		default:
			h.logger.Error("POST /settings/webhook/test - Failed to send test event: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /settings/webhook/test - Test event delivered: owner_id=%s", ownerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
