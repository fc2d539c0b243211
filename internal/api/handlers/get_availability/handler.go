package get_availability

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas"
)

const (
	msgInvalidAgendaID = "некорректный ID агенды"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgNotFound        = "агенда не найдена"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/agendas/{agendaId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("GET /agendas/{id}/availability - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /agendas/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), agendaID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrAgendaNotFound):
			h.logger.Warn("GET /agendas/{id}/availability - Agenda not found: agenda_id=%s", agendaID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, agendas.ErrAccessDenied):
			h.logger.Warn("GET /agendas/{id}/availability - Access denied: agenda_id=%s, owner_id=%s", agendaID, ownerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /agendas/{id}/availability - Failed to get availability: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
