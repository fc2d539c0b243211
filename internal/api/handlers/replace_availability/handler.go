package replace_availability

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

// Handle PUT /api/v1/agendas/{agendaId}/availability
// Тело: {"windows": [{"day_of_week": 1, "start_time": "09:00", "end_time": "12:00"}, ...]}.
// Расписание заменяется целиком; пустой список закрывает все дни.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("PUT /agendas/{id}/availability - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /agendas/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ReplaceAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agendas/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	result, err := h.service.ReplaceAvailability(r.Context(), agendaID, &req)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrInvalidInput):
			h.logger.Warn("PUT /agendas/{id}/availability - Validation failed: agenda_id=%s: %v", agendaID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, agendas.ErrInvalidInput))

		case errors.Is(err, agendas.ErrAgendaNotFound):
			h.logger.Warn("PUT /agendas/{id}/availability - Agenda not found: agenda_id=%s", agendaID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, agendas.ErrAccessDenied):
			h.logger.Warn("PUT /agendas/{id}/availability - Access denied: agenda_id=%s, owner_id=%s", agendaID, ownerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /agendas/{id}/availability - Failed to replace availability: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agendas/{id}/availability - Availability saved: agenda_id=%s, windows=%d",
		agendaID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
