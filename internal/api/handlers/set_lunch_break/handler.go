package set_lunch_break

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
	msgInvalidLunchBreak  = "начало перерыва должно быть раньше окончания"
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

// Handle PUT /api/v1/agendas/{agendaId}/lunch-break
// Тело: {"lunch_break": {"start": "12:00", "end": "13:00"}} или {"lunch_break": null}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("PUT /agendas/{id}/lunch-break - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /agendas/{id}/lunch-break - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SetLunchBreakRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agendas/{id}/lunch-break - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	agenda, err := h.service.SetLunchBreak(r.Context(), agendaID, &req)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrInvalidInput):
			h.logger.Warn("PUT /agendas/{id}/lunch-break - Invalid lunch break: agenda_id=%s: %v", agendaID, err)
			handlers.RespondBadRequest(w, msgInvalidLunchBreak)

		case errors.Is(err, agendas.ErrAgendaNotFound):
			h.logger.Warn("PUT /agendas/{id}/lunch-break - Agenda not found: agenda_id=%s", agendaID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, agendas.ErrAccessDenied):
			h.logger.Warn("PUT /agendas/{id}/lunch-break - Access denied: agenda_id=%s, owner_id=%s", agendaID, ownerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /agendas/{id}/lunch-break - Failed to set lunch break: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agendas/{id}/lunch-break - Lunch break saved: agenda_id=%s, cleared=%t",
		agendaID, agenda.LunchBreak == nil)
	handlers.RespondJSON(w, http.StatusOK, agenda)
}
