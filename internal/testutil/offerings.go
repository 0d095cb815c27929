package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/offeringservice"
)

// Offerings fake клиента OfferingService
type Offerings struct {
	mu       sync.Mutex
	offers   map[int64]*domain.ServiceOffering
	accounts map[int64]*domain.PayoutAccount

	// Err если задан, все вызовы возвращают эту ошибку
	Err error
}

func NewOfferings() *Offerings {
	return &Offerings{
		offers:   make(map[int64]*domain.ServiceOffering),
		accounts: make(map[int64]*domain.PayoutAccount),
	}
}

// AddOffering регистрирует активную услугу с ценой и подключенный аккаунт выплат практика
func (o *Offerings) AddOffering(id, practitionerID int64, price string) *domain.ServiceOffering {
	o.mu.Lock()
	defer o.mu.Unlock()
	offering := &domain.ServiceOffering{
		ID:             id,
		PractitionerID: practitionerID,
		Price:          decimal.RequireFromString(price),
		Currency:       domain.DefaultCurrency,
		IsActive:       true,
	}
	o.offers[id] = offering
	if _, ok := o.accounts[practitionerID]; !ok {
		o.accounts[practitionerID] = &domain.PayoutAccount{
			PractitionerID:     practitionerID,
			DestinationAccount: "acct_practitioner",
			PayoutsEnabled:     true,
		}
	}
	return offering
}

// SetActive включает или снимает услугу с продажи
func (o *Offerings) SetActive(offeringID int64, active bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if offering, ok := o.offers[offeringID]; ok {
		offering.IsActive = active
	}
}

// SetPayoutAccount заменяет аккаунт выплат практика (nil - аккаунта нет)
func (o *Offerings) SetPayoutAccount(practitionerID int64, account *domain.PayoutAccount) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if account == nil {
		delete(o.accounts, practitionerID)
		return
	}
	o.accounts[practitionerID] = account
}

func (o *Offerings) GetOffering(ctx context.Context, offeringID int64) (*domain.ServiceOffering, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	offering, ok := o.offers[offeringID]
	if !ok {
		return nil, offeringservice.ErrOfferingNotFound
	}
	cp := *offering
	return &cp, nil
}

func (o *Offerings) GetPayoutAccount(ctx context.Context, practitionerID int64) (*domain.PayoutAccount, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	account, ok := o.accounts[practitionerID]
	if !ok {
		return nil, offeringservice.ErrPayoutAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}
