package create_payment_intent

import (
	createIntent "github.com/m04kA/SessionBookingService/internal/usecase/create_payment_intent"
)

// PaymentIntentResponse HTTP response model, суммы в минимальных единицах валюты
type PaymentIntentResponse struct {
	IntentID           int64  `json:"intentId"`
	BookingID          int64  `json:"bookingId"`
	ProviderIntentID   string `json:"providerIntentId"`
	ClientSecret       string `json:"clientSecret"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	PlatformFee        int64  `json:"platformFee"`
	PractitionerAmount int64  `json:"practitionerAmount"`
	Status             string `json:"status"`
}

func FromUseCaseResponse(resp *createIntent.Response) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		IntentID:           resp.IntentID,
		BookingID:          resp.BookingID,
		ProviderIntentID:   resp.ProviderIntentID,
		ClientSecret:       resp.ClientSecret,
		Amount:             resp.Amount,
		Currency:           resp.Currency,
		PlatformFee:        resp.PlatformFee,
		PractitionerAmount: resp.PractitionerAmount,
		Status:             resp.Status,
	}
}
