package get_booking_payment

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/service/payments/models"
)

type PaymentService interface {
	GetBookingPayment(ctx context.Context, bookingID int64, userID int64) (*models.BookingPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
