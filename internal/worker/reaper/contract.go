package reaper

import (
	"context"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
)

// BookingRepository источник брошенных бронирований
type BookingRepository interface {
	ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Booking, error)
}

// Canceller отмена бронирования
type Canceller interface {
	Execute(ctx context.Context, req *cancel_booking.Request) (*cancel_booking.Response, error)
}

// Metrics доменные метрики
type Metrics interface {
	IncReaperCancelled()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
