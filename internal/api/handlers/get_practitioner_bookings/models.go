package get_practitioner_bookings

import (
	"fmt"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, from/to задают период; date имеет приоритет.
func ToServiceRequest(
	practitionerID int64,
	userID int64,
	statusStr string,
	dateStr string,
	fromStr string,
	toStr string,
) (*models.GetPractitionerBookingsRequest, error) {
	req := &models.GetPractitionerBookingsRequest{
		UserID:         userID,
		PractitionerID: practitionerID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
		return req, nil
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

	return req, nil
}
