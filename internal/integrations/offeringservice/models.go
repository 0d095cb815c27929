package offeringservice

import "github.com/shopspring/decimal"

// Offering модель услуги из OfferingService.
// Цена передается строкой ("80.00"), чтобы не терять точность.
type Offering struct {
	ID             int64           `json:"id"`
	PractitionerID int64           `json:"practitioner_id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
}

// PayoutAccount подключенный аккаунт практика у платежного провайдера
type PayoutAccount struct {
	PractitionerID int64  `json:"practitioner_id"`
	AccountID      string `json:"account_id"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
}
