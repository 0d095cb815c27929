package stripeprovider

import "github.com/m04kA/SessionBookingService/internal/domain"

// IntentRequest параметры создания платежного намерения.
// Платформа удерживает PlatformFee, остаток переводится на DestinationAccount.
type IntentRequest struct {
	BookingID          int64
	Amount             int64 // минимальные единицы валюты
	Currency           string
	PlatformFee        int64
	DestinationAccount string
	IdempotencyKey     string
}

// Intent состояние намерения у провайдера
type Intent struct {
	ID              string
	ClientSecret    string
	Status          domain.IntentStatus
	Amount          int64
	Currency        string
	PaymentMethodID string
	ChargeID        string
	ProcessingFee   int64 // комиссия провайдера, известна после проведения
}

// RefundRequest параметры возврата
type RefundRequest struct {
	ProviderIntentID string
	Amount           int64
	Reason           string
	IdempotencyKey   string
}

// Refund результат возврата
type Refund struct {
	ID     string
	Status domain.RefundStatus
}
