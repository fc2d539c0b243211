package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Delivery всё, что нужно приемнику для отправки одного события
type Delivery struct {
	Event      domain.Event
	OwnerID    uuid.UUID
	WebhookURL *string // nil = вебхук не настроен
	Payload    *Payload
}

// Payload тело уведомления о событии бронирования
type Payload struct {
	Event     domain.EventType `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Booking   BookingPayload   `json:"booking"`
}

// BookingPayload данные бронирования в уведомлении
type BookingPayload struct {
	ID        uuid.UUID      `json:"id"`
	Date      string         `json:"date"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Status    string         `json:"status"`
	Guest     GuestPayload   `json:"guest"`
	Agenda    AgendaPayload  `json:"agenda"`
	Service   ServicePayload `json:"service"`
	PublicURL string         `json:"public_url"`
}

// GuestPayload контакты гостя
type GuestPayload struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone string  `json:"phone"`
}

// AgendaPayload агенда бронирования
type AgendaPayload struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ServicePayload услуга; для нескольких услуг имена объединяются, длительность и цена суммируются
type ServicePayload struct {
	Name     string  `json:"name"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
}
