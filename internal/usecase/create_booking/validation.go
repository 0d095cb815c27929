package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SeekerID <= 0 {
		return fmt.Errorf("%w: seekerID must be positive", ErrInvalidInput)
	}

	if req.ServiceOfferingID <= 0 {
		return fmt.Errorf("%w: serviceOfferingID must be positive", ErrInvalidInput)
	}

	if req.TimeSlotID != nil && *req.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotID must be positive", ErrInvalidInput)
	}

	if req.SessionType != "" && !req.SessionType.IsValid() {
		return fmt.Errorf("%w: sessionType must be remote or in_person", ErrInvalidInput)
	}

	if req.PrepNotes != nil && len(*req.PrepNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: prepNotes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	// Окно сессии берется из слота
	if req.TimeSlotID != nil {
		return nil
	}

	if req.SessionDate.IsZero() {
		return fmt.Errorf("%w: sessionDate is required for a booking without a time slot", ErrInvalidInput)
	}

	return validateWindow(req.StartTime, req.EndTime)
}

// validateWindow проверяет формат времени и что окончание позже начала
func validateWindow(startTime, endTime string) error {
	start, err := time.Parse(domain.TimeFormat, startTime)
	if err != nil {
		return fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidInput)
	}

	end, err := time.Parse(domain.TimeFormat, endTime)
	if err != nil {
		return fmt.Errorf("%w: endTime must be HH:MM", ErrInvalidInput)
	}

	if !end.After(start) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	return nil
}
