package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	createBooking "github.com/m04kA/SMC-AgendaService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	AgendaID   uuid.UUID   `json:"agenda_id"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
	Date       string      `json:"date"`       // "2025-10-15"
	StartTime  string      `json:"start_time"` // "10:00" или "10:00:00"
	GuestName  string      `json:"guest_name"`
	GuestEmail *string     `json:"guest_email,omitempty"`
	GuestPhone string      `json:"guest_phone"`
	Notes      *string     `json:"notes,omitempty"`
}

// BookingItemResponse часть бронирования для одной услуги
type BookingItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ServiceID       uuid.UUID `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	ServicePrice    float64   `json:"service_price"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              uuid.UUID             `json:"id"`
	GroupID         uuid.UUID             `json:"group_id"`
	AgendaID        uuid.UUID             `json:"agenda_id"`
	BookingDate     string                `json:"booking_date"`
	StartTime       string                `json:"start_time"`
	EndTime         string                `json:"end_time"`
	DurationMinutes int                   `json:"duration_minutes"`
	Status          string                `json:"status"`
	Items           []BookingItemResponse `json:"items"`
	GuestName       string                `json:"guest_name"`
	GuestEmail      *string               `json:"guest_email,omitempty"`
	GuestPhone      string                `json:"guest_phone"`
	Notes           *string               `json:"notes,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		AgendaID:   r.AgendaID,
		ServiceIDs: r.ServiceIDs,
		Date:       bookingDate,
		StartTime:  startTime,
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		GuestPhone: r.GuestPhone,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	items := make([]BookingItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, BookingItemResponse{
			ID:              item.ID,
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			ServicePrice:    item.ServicePrice,
			StartTime:       item.StartTime.String(),
			EndTime:         item.EndTime.String(),
			DurationMinutes: item.DurationMinutes,
		})
	}

	return &BookingResponse{
		ID:              resp.ID,
		GroupID:         resp.GroupID,
		AgendaID:        resp.AgendaID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Items:           items,
		GuestName:       resp.GuestName,
		GuestEmail:      resp.GuestEmail,
		GuestPhone:      resp.GuestPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
