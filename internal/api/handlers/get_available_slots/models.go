package get_available_slots

import (
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SessionBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date              string          `json:"date"`
	ServiceOfferingID int64           `json:"serviceOfferingId"`
	PractitionerID    int64           `json:"practitionerId"`
	Slots             []AvailableSlot `json:"slots"`
}

// AvailableSlot HTTP модель свободного слота
type AvailableSlot struct {
	SlotID         int64  `json:"slotId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Timezone       string `json:"timezone"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// ToUseCaseRequest формирует запрос к use case из параметров запроса
func ToUseCaseRequest(offeringID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceOfferingID: offeringID,
		Date:              date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, AvailableSlot{
			SlotID:         slot.SlotID,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			Timezone:       slot.Timezone,
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
		})
	}

	return &AvailableSlotsResponse{
		Date:              resp.Date.Format(domain.DateFormat),
		ServiceOfferingID: resp.ServiceOfferingID,
		PractitionerID:    resp.PractitionerID,
		Slots:             slots,
	}
}
