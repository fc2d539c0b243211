package set_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidWebhookURL  = "адрес вебхука недопустим"

	codeInvalidWebhookURL = "invalid_webhook_url"
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

// Handle PUT /api/v1/settings/webhook
// Тело: {"webhook_url": "https://..."}; пустая строка удаляет адрес.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /settings/webhook - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SetWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	result, err := h.service.SetWebhook(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidWebhookURL):
			h.logger.Warn("PUT /settings/webhook - URL rejected: owner_id=%s: %v", ownerID, err)
			handlers.RespondErrorWithCode(w, http.StatusBadRequest, codeInvalidWebhookURL, msgInvalidWebhookURL)

		default:
			h.logger.Error("PUT /settings/webhook - Failed to save webhook: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /settings/webhook - Webhook saved: owner_id=%s, configured=%t",
		ownerID, result.WebhookURL != nil)
	handlers.RespondJSON(w, http.StatusOK, result)
}
