package get_agenda_bookings

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/bookings"
)

const (
	msgInvalidAgendaID = "некорректный ID агенды"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgAgendaNotFound  = "агенда не найдена"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/agendas/{agendaId}/bookings
// Query params: from, to, date (YYYY-MM-DD), status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("GET /agendas/{id}/bookings - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /agendas/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(agendaID, ownerID,
		query.Get("from"), query.Get("to"), query.Get("date"), query.Get("status"))
	if err != nil {
		h.logger.Warn("GET /agendas/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByAgenda(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /agendas/{id}/bookings - Invalid filter: agenda_id=%s: %v", agendaID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrAgendaNotFound):
			h.logger.Warn("GET /agendas/{id}/bookings - Agenda not found: agenda_id=%s", agendaID)
			handlers.RespondNotFound(w, msgAgendaNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /agendas/{id}/bookings - Access denied: agenda_id=%s, owner_id=%s", agendaID, ownerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /agendas/{id}/bookings - Failed to get bookings: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agendas/{id}/bookings - Bookings retrieved successfully: agenda_id=%s, count=%d",
		agendaID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
