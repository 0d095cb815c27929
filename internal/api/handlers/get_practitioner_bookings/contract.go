package get_practitioner_bookings

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetPractitionerBookings(ctx context.Context, req *models.GetPractitionerBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
