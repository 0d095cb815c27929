package request_refund

import "github.com/m04kA/SessionBookingService/internal/domain"

// Request модель запроса на возврат
type Request struct {
	TransactionID int64
	ActorID       int64
	// Amount сумма в минимальных единицах, nil - весь остаток
	Amount *int64
	Reason string
	// System возврат инициирован платформой (отмена бронирования, поздняя оплата)
	System bool
	// InitiatedBy инициатор системного возврата, по умолчанию platform
	InitiatedBy domain.Actor
}

// Response модель ответа с результатом возврата
type Response struct {
	RefundID           int64
	TransactionID      int64
	Amount             int64
	PlatformFeeRefund  int64
	PractitionerRefund int64
	Status             string
	TransactionStatus  string
	RemainingBalance   int64
}
