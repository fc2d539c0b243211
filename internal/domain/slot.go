package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// Interval occupied [Start, End) range within a day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Overlaps returns true if [start, start+duration) intersects the interval.
// Touching edges do not overlap.
func (i Interval) Overlaps(start, duration int) bool {
	return start < i.End.Minutes() && start+duration > i.Start.Minutes()
}

// AvailableSlot a bookable slot anchored to a date in the display timezone
type AvailableSlot struct {
	Start time.Time
	End   time.Time
}

// EventType booking lifecycle event kind
type EventType string

const (
	EventCreated   EventType = "created"
	EventConfirmed EventType = "confirmed"
	EventCancelled EventType = "cancelled"
)

// EventForStatus событие, соответствующее новому статусу
func EventForStatus(status BookingStatus) (EventType, bool) {
	switch status {
	case StatusConfirmed:
		return EventConfirmed, true
	case StatusCancelled:
		return EventCancelled, true
	}
	return "", false
}

// Event booking lifecycle event sent to the notification dispatcher
type Event struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Type       EventType
	OccurredAt time.Time
}

// NewEvent создает событие с новым ID
func NewEvent(bookingID uuid.UUID, eventType EventType, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		BookingID:  bookingID,
		Type:       eventType,
		OccurredAt: now,
	}
}
