package set_slot_availability

import (
	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
)

// SetAvailabilityRequest HTTP request model
type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *SetAvailabilityRequest) ToServiceRequest(slotID, userID int64) *models.SetAvailabilityRequest {
	return &models.SetAvailabilityRequest{
		UserID:      userID,
		SlotID:      slotID,
		IsAvailable: *r.IsAvailable,
	}
}
