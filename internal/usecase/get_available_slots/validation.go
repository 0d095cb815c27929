package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceOfferingID <= 0 {
		return fmt.Errorf("%w: serviceOfferingID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно бронирования
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	requestDay := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, time.UTC)

	if requestDay.Before(today) {
		return ErrInvalidDate
	}

	if advanceBookingDays > 0 && requestDay.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// filterBookable оставляет слоты, которые еще можно забронировать на услугу
func filterBookable(slots []*domain.TimeSlot, offering *domain.ServiceOffering, now time.Time) []Slot {
	result := make([]Slot, 0, len(slots))

	for _, slot := range slots {
		if !slot.IsReservable() || !slot.AcceptsOffering(offering.PractitionerID, offering.ID) {
			continue
		}

		// Начавшиеся слоты не показываем
		start, err := slot.Start()
		if err != nil || !start.After(now) {
			continue
		}

		result = append(result, Slot{
			SlotID:         slot.ID,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			Timezone:       slot.Timezone,
			AvailableSpots: slot.AvailableSpots(),
			TotalSpots:     slot.MaxBookings,
		})
	}

	return result
}
