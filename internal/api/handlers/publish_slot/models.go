package publish_slot

import (
	"github.com/m04kA/SessionBookingService/internal/service/slots/models"
)

// PublishSlotRequest HTTP request model
type PublishSlotRequest struct {
	ServiceOfferingID *int64 `json:"serviceOfferingId,omitempty"`
	SlotDate          string `json:"slotDate"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Timezone          string `json:"timezone"`
	MaxBookings       int    `json:"maxBookings"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *PublishSlotRequest) ToServiceRequest(practitionerID, userID int64) *models.PublishSlotRequest {
	maxBookings := r.MaxBookings
	if maxBookings == 0 {
		maxBookings = 1
	}

	return &models.PublishSlotRequest{
		UserID:            userID,
		PractitionerID:    practitionerID,
		ServiceOfferingID: r.ServiceOfferingID,
		SlotDate:          r.SlotDate,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Timezone:          r.Timezone,
		MaxBookings:       maxBookings,
	}
}
