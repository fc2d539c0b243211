package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	OwnerID uuid.UUID `json:"-"`
	Status  string    `json:"status"`
}

// ListBookingsRequest запрос на получение бронирований агенды
type ListBookingsRequest struct {
	OwnerID   uuid.UUID  `json:"-"`
	AgendaID  uuid.UUID  `json:"agenda_id"`
	StartDate *time.Time `json:"from,omitempty"`   // Начало периода (опционально)
	EndDate   *time.Time `json:"to,omitempty"`     // Конец периода (опционально)
	Status    *string    `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		AgendaID:  r.AgendaID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"group_id"`
	AgendaID    uuid.UUID `json:"agenda_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	BookingDate string    `json:"booking_date"` // "2025-10-15"
	StartTime   string    `json:"start_time"`   // "10:00"
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`

	GuestName  string  `json:"guest_name"`
	GuestEmail *string `json:"guest_email,omitempty"`
	GuestPhone string  `json:"guest_phone"`
	Notes      *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingDetailResponse бронирование вместе со всеми частями группы.
// Для записи на несколько услуг Parts содержит каждую услугу по порядку,
// GroupStartTime/GroupEndTime - общий интервал визита.
type BookingDetailResponse struct {
	BookingResponse
	GroupStartTime  string            `json:"group_start_time"`
	GroupEndTime    string            `json:"group_end_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Parts           []BookingResponse `json:"parts"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		GroupID:     b.GroupID,
		AgendaID:    b.AgendaID,
		ServiceID:   b.ServiceID,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Status:      string(b.Status),
		GuestName:   b.GuestName,
		GuestEmail:  b.GuestEmail,
		GuestPhone:  b.GuestPhone,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingGroup собирает детальный ответ по бронированию и его группе.
// group отсортирован по времени начала и содержит само бронирование.
func FromDomainBookingGroup(b *domain.Booking, group []*domain.Booking) *BookingDetailResponse {
	if b == nil {
		return nil
	}
	if len(group) == 0 {
		group = []*domain.Booking{b}
	}

	resp := &BookingDetailResponse{
		BookingResponse: *FromDomainBooking(b),
		GroupStartTime:  group[0].StartTime.String(),
		GroupEndTime:    group[len(group)-1].EndTime.String(),
		Parts:           make([]BookingResponse, 0, len(group)),
	}
	for _, part := range group {
		resp.DurationMinutes += part.EndTime.Minutes() - part.StartTime.Minutes()
		resp.Parts = append(resp.Parts, *FromDomainBooking(part))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
