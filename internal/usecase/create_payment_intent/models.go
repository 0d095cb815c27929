package create_payment_intent

import "github.com/m04kA/SessionBookingService/internal/domain"

// Request модель запроса на создание платежного намерения
type Request struct {
	BookingID int64
	SeekerID  int64
}

// Response модель ответа с платежным намерением
type Response struct {
	IntentID           int64
	BookingID          int64
	ProviderIntentID   string
	ClientSecret       string
	Amount             int64
	Currency           string
	PlatformFee        int64
	PractitionerAmount int64
	Status             string
	// Reused намерение уже существовало и возвращено повторно
	Reused bool
}

func toResponse(intent *domain.PaymentIntent, reused bool) *Response {
	return &Response{
		IntentID:           intent.ID,
		BookingID:          intent.BookingID,
		ProviderIntentID:   intent.ProviderIntentID,
		ClientSecret:       intent.ClientSecret,
		Amount:             intent.Amount,
		Currency:           intent.Currency,
		PlatformFee:        intent.PlatformFee,
		PractitionerAmount: intent.PractitionerAmount,
		Status:             string(intent.Status),
		Reused:             reused,
	}
}
