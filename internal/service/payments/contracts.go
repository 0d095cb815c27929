package payments

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей (только чтение)
type PaymentRepository interface {
	GetIntentByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentIntent, error)
	GetTransactionByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error)
	ListRefundsByTransaction(ctx context.Context, transactionID int64) ([]*domain.PaymentRefund, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
