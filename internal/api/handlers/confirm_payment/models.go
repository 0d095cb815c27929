package confirm_payment

import (
	confirmPayment "github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
)

// ConfirmPaymentRequest HTTP request model
type ConfirmPaymentRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

// ConfirmPaymentResponse HTTP response model
type ConfirmPaymentResponse struct {
	IntentID      int64  `json:"intentId"`
	BookingID     int64  `json:"bookingId"`
	IntentStatus  string `json:"intentStatus"`
	BookingStatus string `json:"bookingStatus"`
	PaymentStatus string `json:"paymentStatus"`
	TransactionID *int64 `json:"transactionId,omitempty"`
	ProcessingFee int64  `json:"processingFee"`
}

func (r *ConfirmPaymentRequest) ToUseCaseRequest(intentID, userID int64) *confirmPayment.Request {
	return &confirmPayment.Request{
		IntentID:        intentID,
		SeekerID:        userID,
		PaymentMethodID: r.PaymentMethodID,
	}
}

func FromUseCaseResponse(resp *confirmPayment.Response) *ConfirmPaymentResponse {
	return &ConfirmPaymentResponse{
		IntentID:      resp.IntentID,
		BookingID:     resp.BookingID,
		IntentStatus:  resp.IntentStatus,
		BookingStatus: resp.BookingStatus,
		PaymentStatus: resp.PaymentStatus,
		TransactionID: resp.TransactionID,
		ProcessingFee: resp.ProcessingFee,
	}
}
