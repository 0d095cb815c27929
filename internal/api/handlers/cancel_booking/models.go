package cancel_booking

import (
	cancelBooking "github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID      int64  `json:"bookingId"`
	Status         string `json:"status"`
	CancelledBy    string `json:"cancelledBy"`
	PaymentStatus  string `json:"paymentStatus"`
	RefundID       *int64 `json:"refundId,omitempty"`
	RefundedAmount int64  `json:"refundedAmount"` // в минимальных единицах
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, userID int64) *cancelBooking.Request {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &cancelBooking.Request{
		BookingID: bookingID,
		ActorID:   userID,
		Reason:    reason,
	}
}

func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		BookingID:      resp.BookingID,
		Status:         resp.Status,
		CancelledBy:    resp.CancelledBy,
		PaymentStatus:  resp.PaymentStatus,
		RefundID:       resp.RefundID,
		RefundedAmount: resp.RefundedAmount,
	}
}
