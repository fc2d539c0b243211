package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// ErrInvalidWindow возвращается при некорректном окне доступности
var ErrInvalidWindow = errors.New("domain: invalid availability window")

// AvailabilityWindow weekly recurring open interval
type AvailabilityWindow struct {
	ID        uuid.UUID
	AgendaID  uuid.UUID
	DayOfWeek time.Weekday // 0 = Sunday .. 6 = Saturday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate проверяет день недели и start < end
func (w AvailabilityWindow) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day_of_week %d", ErrInvalidWindow, w.DayOfWeek)
	}
	if w.StartTime.IsZero() || w.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidWindow, w.StartTime, w.EndTime)
	}
	return nil
}
