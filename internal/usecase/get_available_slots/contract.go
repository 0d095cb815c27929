package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListByPractitioner получает слоты практика на конкретную дату
	ListByPractitioner(ctx context.Context, practitionerID int64, date *time.Time) ([]*domain.TimeSlot, error)
}

// OfferingClient интерфейс клиента для OfferingService
type OfferingClient interface {
	GetOffering(ctx context.Context, offeringID int64) (*domain.ServiceOffering, error)
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
