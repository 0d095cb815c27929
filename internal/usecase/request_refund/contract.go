package request_refund

import (
	"context"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetTransactionByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error)
	GetIntentByID(ctx context.Context, id int64) (*domain.PaymentIntent, error)
	ReserveRefund(ctx context.Context, transactionID int64, amount int64) (int64, error)
	ReleaseRefund(ctx context.Context, transactionID int64, amount int64) error
	FinalizeTransactionStatus(ctx context.Context, transactionID int64) (domain.TransactionStatus, error)
	CreateRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.PaymentRefund, error)
	MarkRefund(ctx context.Context, refundID int64, status domain.RefundStatus, providerRefundID *string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	SetPaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	Refund(ctx context.Context, req stripeprovider.RefundRequest) (*stripeprovider.Refund, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	IncRefund(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
