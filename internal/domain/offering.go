package domain

import "github.com/shopspring/decimal"

// ServiceOffering priced session type, owned by the offering service
type ServiceOffering struct {
	ID             int64
	PractitionerID int64
	Price          decimal.Decimal
	Currency       string
	IsActive       bool
}

// PayoutAccount connected provider account of a practitioner
type PayoutAccount struct {
	PractitionerID     int64
	DestinationAccount string
	PayoutsEnabled     bool
}

// IsPayable returns true if money can be routed to the practitioner
func (a *PayoutAccount) IsPayable() bool {
	return a != nil && a.PayoutsEnabled && a.DestinationAccount != ""
}
