package get_agenda_bookings

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// from и to задают период включительно; date - сокращение для from=to=date.
func ToServiceRequest(agendaID, ownerID uuid.UUID, fromStr, toStr, dateStr, statusStr string) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		OwnerID:  ownerID,
		AgendaID: agendaID,
	}

	if dateStr != "" {
		fromStr, toStr = dateStr, dateStr
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.StartDate = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.EndDate = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
