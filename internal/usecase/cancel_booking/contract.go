package cancel_booking

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, upd bookingRepo.TransitionUpdate) error
}

// SlotRepository интерфейс реестра слотов
type SlotRepository interface {
	Release(ctx context.Context, slotID int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetIntentByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentIntent, error)
	UpdateIntentStatus(ctx context.Context, id int64, from []domain.IntentStatus, to domain.IntentStatus, paymentMethodID *string) error
	GetTransactionByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error)
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	CancelIntent(ctx context.Context, providerIntentID string) error
}

// Reconciler сверка намерения с провайдером: проведенный провайдером платеж записывается и возвращается
type Reconciler interface {
	ReconcileIntent(ctx context.Context, intentID int64) error
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
	IncBookingTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
