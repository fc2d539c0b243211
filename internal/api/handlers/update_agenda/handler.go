package update_agenda

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

const (
	msgInvalidAgendaID    = "некорректный ID агенды"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "агенда не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service AgendaService
	logger  Logger
}

func NewHandler(service AgendaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/agendas/{agendaId}
// Slug не входит в тело запроса: после создания он не меняется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("PATCH /agendas/{id} - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /agendas/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateAgendaRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /agendas/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	agenda, err := h.service.Update(r.Context(), agendaID, &req)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrInvalidInput):
			h.logger.Warn("PATCH /agendas/{id} - Validation failed: agenda_id=%s: %v", agendaID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, agendas.ErrInvalidInput))

		case errors.Is(err, agendas.ErrAgendaNotFound):
			h.logger.Warn("PATCH /agendas/{id} - Agenda not found: agenda_id=%s", agendaID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, agendas.ErrAccessDenied):
			h.logger.Warn("PATCH /agendas/{id} - Access denied: agenda_id=%s, owner_id=%s", agendaID, ownerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /agendas/{id} - Failed to update agenda: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /agendas/{id} - Agenda updated successfully: agenda_id=%s, is_active=%t",
		agendaID, agenda.IsActive)
	handlers.RespondJSON(w, http.StatusOK, agenda)
}
