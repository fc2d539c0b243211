package get_available_slots

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	AgendaID   uuid.UUID
	ServiceIDs []uuid.UUID
	Date       time.Time // Дата (без времени)
}

// Slot доступный слот в часовом поясе агенды
type Slot struct {
	Start time.Time
	End   time.Time
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	DurationMinutes int
	Slots           []Slot
}
