package confirm_payment

// Request модель запроса на подтверждение оплаты
type Request struct {
	IntentID        int64
	SeekerID        int64
	PaymentMethodID string
}

// Response модель ответа с состоянием оплаты
type Response struct {
	IntentID      int64
	BookingID     int64
	IntentStatus  string
	BookingStatus string
	PaymentStatus string
	TransactionID *int64
	ProcessingFee int64
}
