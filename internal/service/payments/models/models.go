package models

import (
	"time"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// BookingPaymentResponse платежное состояние бронирования
// Суммы в минимальных единицах валюты (центах)
type BookingPaymentResponse struct {
	BookingID     int64                `json:"bookingId"`
	PaymentStatus string               `json:"paymentStatus"`
	Intent        *IntentResponse      `json:"intent,omitempty"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
	Refunds       []RefundResponse     `json:"refunds"`
}

// IntentResponse платежное намерение
type IntentResponse struct {
	ID                 int64     `json:"id"`
	ProviderIntentID   string    `json:"providerIntentId"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	PlatformFee        int64     `json:"platformFee"`
	PractitionerAmount int64     `json:"practitionerAmount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TransactionResponse проведенный платеж
type TransactionResponse struct {
	ID                 int64      `json:"id"`
	TotalAmount        int64      `json:"totalAmount"`
	PlatformFee        int64      `json:"platformFee"`
	PractitionerAmount int64      `json:"practitionerAmount"`
	ProcessingFee      int64      `json:"processingFee"`
	Currency           string     `json:"currency"`
	Status             string     `json:"status"`
	RefundedAmount     int64      `json:"refundedAmount"`
	RefundableBalance  int64      `json:"refundableBalance"`
	ChargedAt          time.Time  `json:"chargedAt"`
	TransferredAt      *time.Time `json:"transferredAt,omitempty"`
}

// RefundResponse возврат
type RefundResponse struct {
	ID                 int64     `json:"id"`
	Amount             int64     `json:"amount"`
	PlatformFeeRefund  int64     `json:"platformFeeRefund"`
	PractitionerRefund int64     `json:"practitionerRefund"`
	Reason             string    `json:"reason"`
	InitiatedBy        string    `json:"initiatedBy"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// FromDomain собирает ответ из записей хранилища; intent и txn могут быть nil
func FromDomain(
	booking *domain.Booking,
	intent *domain.PaymentIntent,
	txn *domain.PaymentTransaction,
	refunds []*domain.PaymentRefund,
) *BookingPaymentResponse {
	resp := &BookingPaymentResponse{
		BookingID:     booking.ID,
		PaymentStatus: string(booking.PaymentStatus),
		Refunds:       make([]RefundResponse, 0, len(refunds)),
	}

	if intent != nil {
		resp.Intent = &IntentResponse{
			ID:                 intent.ID,
			ProviderIntentID:   intent.ProviderIntentID,
			Amount:             intent.Amount,
			Currency:           intent.Currency,
			PlatformFee:        intent.PlatformFee,
			PractitionerAmount: intent.PractitionerAmount,
			Status:             string(intent.Status),
			CreatedAt:          intent.CreatedAt,
			UpdatedAt:          intent.UpdatedAt,
		}
	}

	if txn != nil {
		resp.Transaction = &TransactionResponse{
			ID:                 txn.ID,
			TotalAmount:        txn.TotalAmount,
			PlatformFee:        txn.PlatformFee,
			PractitionerAmount: txn.PractitionerAmount,
			ProcessingFee:      txn.ProcessingFee,
			Currency:           txn.Currency,
			Status:             string(txn.Status),
			RefundedAmount:     txn.RefundedAmount,
			RefundableBalance:  txn.RefundableBalance(),
			ChargedAt:          txn.ChargedAt,
			TransferredAt:      txn.TransferredAt,
		}
	}

	for _, r := range refunds {
		resp.Refunds = append(resp.Refunds, RefundResponse{
			ID:                 r.ID,
			Amount:             r.Amount,
			PlatformFeeRefund:  r.PlatformFeeRefund,
			PractitionerRefund: r.PractitionerRefund,
			Reason:             r.Reason,
			InitiatedBy:        string(r.InitiatedBy),
			Status:             string(r.Status),
			CreatedAt:          r.CreatedAt,
		})
	}

	return resp
}
