package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid returns true for known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking represents a guest reservation on an agenda.
// A multi-service booking is stored as contiguous rows sharing GroupID.
type Booking struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	AgendaID    uuid.UUID
	ServiceID   uuid.UUID
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus

	GuestName  string
	GuestEmail *string
	GuestPhone string
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes длительность бронирования
func (b *Booking) DurationMinutes() int {
	return b.EndTime.Minutes() - b.StartTime.Minutes()
}

// Interval занимаемый интервал времени
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsBlocking returns true if the booking occupies its slot
func (b *Booking) IsBlocking() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo проверяет допустимость перехода статуса.
// pending -> confirmed | cancelled, confirmed -> cancelled. Возврата в pending нет.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// BookingsFilter фильтр для списка бронирований агенды
type BookingsFilter struct {
	AgendaID  uuid.UUID      // Обязательный параметр
	StartDate *time.Time     // Начало периода (включительно)
	EndDate   *time.Time     // Конец периода (включительно)
	Status    *BookingStatus // Фильтр по статусу
}
