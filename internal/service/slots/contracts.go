package slots

import (
	"context"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListByPractitioner(ctx context.Context, practitionerID int64, date *time.Time) ([]*domain.TimeSlot, error)
	SetAvailability(ctx context.Context, slotID int64, available bool) error
	Delete(ctx context.Context, slotID int64) error
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
