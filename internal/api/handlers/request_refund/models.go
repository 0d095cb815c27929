package request_refund

import (
	requestRefund "github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
)

// RequestRefundRequest HTTP request model
type RequestRefundRequest struct {
	Amount *int64 `json:"amount,omitempty"` // минимальные единицы, пусто - весь остаток
	Reason string `json:"reason"`
}

// RefundResponse HTTP response model
type RefundResponse struct {
	RefundID           int64  `json:"refundId"`
	TransactionID      int64  `json:"transactionId"`
	Amount             int64  `json:"amount"`
	PlatformFeeRefund  int64  `json:"platformFeeRefund"`
	PractitionerRefund int64  `json:"practitionerRefund"`
	Status             string `json:"status"`
	TransactionStatus  string `json:"transactionStatus"`
	RemainingBalance   int64  `json:"remainingBalance"`
}

func (r *RequestRefundRequest) ToUseCaseRequest(transactionID, userID int64) *requestRefund.Request {
	return &requestRefund.Request{
		TransactionID: transactionID,
		ActorID:       userID,
		Amount:        r.Amount,
		Reason:        r.Reason,
	}
}

func FromUseCaseResponse(resp *requestRefund.Response) *RefundResponse {
	return &RefundResponse{
		RefundID:           resp.RefundID,
		TransactionID:      resp.TransactionID,
		Amount:             resp.Amount,
		PlatformFeeRefund:  resp.PlatformFeeRefund,
		PractitionerRefund: resp.PractitionerRefund,
		Status:             resp.Status,
		TransactionStatus:  resp.TransactionStatus,
		RemainingBalance:   resp.RemainingBalance,
	}
}
