package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	AgendaID   uuid.UUID
	ServiceIDs []uuid.UUID      // 1..2 услуги, идут подряд в указанном порядке
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала, например "10:00"

	GuestName  string
	GuestEmail *string
	GuestPhone string
	Notes      *string
}

// Item часть бронирования для одной услуги
type Item struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	ServiceName     string
	ServicePrice    float64
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              uuid.UUID // ID первой части, по нему бронирование отслеживается
	GroupID         uuid.UUID
	AgendaID        uuid.UUID
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Items           []Item

	GuestName  string
	GuestEmail *string
	GuestPhone string
	Notes      *string

	CreatedAt time.Time
}
