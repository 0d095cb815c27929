package confirm_payment

import (
	"context"
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, upd bookingRepo.TransitionUpdate) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error
}

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	Release(ctx context.Context, slotID int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetIntentByID(ctx context.Context, id int64) (*domain.PaymentIntent, error)
	UpdateIntentStatus(ctx context.Context, id int64, from []domain.IntentStatus, to domain.IntentStatus, paymentMethodID *string) error
	CreateTransaction(ctx context.Context, txn *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	GetTransactionByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error)
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	ConfirmIntent(ctx context.Context, providerIntentID string, paymentMethodID string) (*stripeprovider.Intent, error)
	RetrieveIntent(ctx context.Context, providerIntentID string) (*stripeprovider.Intent, error)
}

// Refunder возврат средств по транзакции
type Refunder interface {
	Execute(ctx context.Context, req *request_refund.Request) (*request_refund.Response, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	IncPaymentIntent(result string)
	IncConsistencyError(kind string)
	IncBookingTransition(from, to string)
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
