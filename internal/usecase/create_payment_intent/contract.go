package create_payment_intent

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetPaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	CreateIntent(ctx context.Context, intent *domain.PaymentIntent) (*domain.PaymentIntent, error)
	GetIntentByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentIntent, error)
}

// OfferingClient интерфейс клиента для OfferingService
type OfferingClient interface {
	GetPayoutAccount(ctx context.Context, practitionerID int64) (*domain.PayoutAccount, error)
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req stripeprovider.IntentRequest) (*stripeprovider.Intent, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	IncPaymentIntent(result string)
	IncConsistencyError(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
