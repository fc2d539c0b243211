package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
)

const (
	msgInvalidAgendaID  = "некорректный ID агенды"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPageUnavailable  = "эта страница бронирования больше недоступна"
)

var (
	errInvalidDate      = errors.New("invalid date")
	errInvalidServiceID = errors.New("invalid service id")
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/agendas/{agendaId}/available-slots
// Query params: service_ids (обязательно, через запятую), date (обязательно, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	agendaID, err := uuid.Parse(mux.Vars(r)["agendaId"])
	if err != nil {
		h.logger.Warn("GET /agendas/{id}/available-slots - Invalid agenda ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgendaID)
		return
	}

	query := r.URL.Query()
	serviceIDsStr := query.Get("service_ids")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /agendas/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /agendas/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(agendaID, serviceIDsStr, dateStr)
	if err != nil {
		h.logger.Warn("GET /agendas/{id}/available-slots - Invalid parameters: %v", err)
		if errors.Is(err, errInvalidServiceID) {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrAgendaInactive), errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /agendas/{id}/available-slots - Booking page unavailable: agenda_id=%s: %v", agendaID, err)
			handlers.RespondNotFound(w, msgPageUnavailable)

		case errors.Is(err, getAvailableSlots.ErrValidation):
			h.logger.Warn("GET /agendas/{id}/available-slots - Validation failed: agenda_id=%s: %v", agendaID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, getAvailableSlots.ErrValidation))

		default:
			h.logger.Error("GET /agendas/{id}/available-slots - Failed to get slots: agenda_id=%s, error=%v", agendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agendas/{id}/available-slots - Found %d slots: agenda_id=%s, date=%s",
		len(result.Slots), agendaID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
