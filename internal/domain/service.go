package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service a bookable service offered by a professional
type Service struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Settings per-professional settings
type Settings struct {
	OwnerID    uuid.UUID
	WebhookURL *string
	UpdatedAt  time.Time
}
