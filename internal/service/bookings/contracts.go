package bookings

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListBySeeker(ctx context.Context, seekerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListByPractitioner(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ReviewRepository интерфейс репозитория отзывов (только чтение)
type ReviewRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
