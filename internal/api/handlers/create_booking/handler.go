package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgPageUnavailable    = "эта страница бронирования больше недоступна"
	msgSlotConflict       = "это время только что заняли, выберите другой слот"

	codeSlotConflict = "slot_conflict"
)

var (
	errInvalidDate = errors.New("invalid booking date")
	errInvalidTime = errors.New("invalid start time")
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: agenda_id=%s, date=%s, start=%s",
				req.AgendaID, req.Date, req.StartTime)
			handlers.RespondConflict(w, codeSlotConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrAgendaInactive), errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Booking page unavailable: agenda_id=%s: %v", req.AgendaID, err)
			handlers.RespondNotFound(w, msgPageUnavailable)

		case errors.Is(err, createBooking.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: agenda_id=%s: %v", req.AgendaID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, createBooking.ErrValidation))

		default:
			h.logger.Error("POST /bookings - Failed to create booking: agenda_id=%s, error=%v", req.AgendaID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, agenda_id=%s, parts=%d",
		result.ID, result.AgendaID, len(result.Items))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
