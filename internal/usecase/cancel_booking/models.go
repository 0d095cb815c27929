package cancel_booking

import "github.com/m04kA/SessionBookingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	ActorID   int64
	Reason    string
	// System отмена платформой (истекло время оплаты), проверка участника не выполняется
	System bool
	// ExpectedStatus если задан, отменяется только бронирование в этом статусе
	ExpectedStatus domain.BookingStatus
}

// Response модель ответа с результатом отмены
type Response struct {
	BookingID      int64
	Status         string
	CancelledBy    string
	PaymentStatus  string
	RefundID       *int64
	RefundedAmount int64
}
