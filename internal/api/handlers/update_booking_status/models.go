package update_booking_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model: {"status": "confirmed" | "cancelled"}
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(ownerID uuid.UUID) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		OwnerID: ownerID,
		Status:  r.Status,
	}
}
