package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// ErrInvalidLunchBreak возвращается, когда начало перерыва не раньше конца
var ErrInvalidLunchBreak = errors.New("domain: lunch break start must be before end")

// Agenda a professional's shareable schedule
type Agenda struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Slug        string
	Description *string
	IsActive    bool
	LunchBreak  *LunchBreak // nil = без перерыва
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy returns true if userID owns the agenda
func (a *Agenda) IsOwnedBy(userID uuid.UUID) bool {
	return a.OwnerID == userID
}

// LunchBreak daily blackout interval applied to every day with availability
type LunchBreak struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate проверяет start < end
func (l LunchBreak) Validate() error {
	if l.Start.IsZero() || l.End.IsZero() || !l.Start.IsBefore(l.End) {
		return ErrInvalidLunchBreak
	}
	return nil
}

// Interval представление перерыва как интервала
func (l LunchBreak) Interval() Interval {
	return Interval{Start: l.Start, End: l.End}
}
