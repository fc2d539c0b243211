package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AgendaService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	DurationMinutes int             `json:"duration_minutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot слот с абсолютными метками времени ISO-8601
type AvailableSlot struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			SlotStart: slot.Start.Format(time.RFC3339),
			SlotEnd:   slot.End.Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// service_ids передается списком через запятую.
func ToUseCaseRequest(agendaID uuid.UUID, serviceIDsStr, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	parts := strings.Split(serviceIDsStr, ",")
	serviceIDs := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidServiceID, err)
		}
		serviceIDs = append(serviceIDs, id)
	}

	return &getAvailableSlots.Request{
		AgendaID:   agendaID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}, nil
}
