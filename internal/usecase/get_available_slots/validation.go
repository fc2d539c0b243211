package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AgendaID == uuid.Nil {
		return fmt.Errorf("%w: agenda_id is required", ErrValidation)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrValidation)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrValidation, domain.MaxServicesPerBooking)
	}

	seen := make(map[uuid.UUID]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: service id is required", ErrValidation)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate service id %s", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	return nil
}

// dayRelation сравнивает дату с сегодняшним днём в часовом поясе агенды: -1 прошлое, 0 сегодня, 1 будущее
func dayRelation(date, now time.Time, loc *time.Location) int {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case day.Before(today):
		return -1
	case day.Equal(today):
		return 0
	default:
		return 1
	}
}

// dropStarted убирает слоты, время начала которых уже прошло
func dropStarted(starts []types.TimeString, now time.Time, loc *time.Location) []types.TimeString {
	current := types.NewTimeString(now.In(loc))
	result := make([]types.TimeString, 0, len(starts))
	for _, s := range starts {
		if !s.IsBefore(current) {
			result = append(result, s)
		}
	}
	return result
}
