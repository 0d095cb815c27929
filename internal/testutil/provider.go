package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
)

// Provider fake платежного провайдера. Повторный CreateIntent с тем же ключом
// идемпотентности возвращает то же намерение.
type Provider struct {
	mu sync.Mutex

	byKey   map[string]*stripeprovider.Intent
	intents map[string]*stripeprovider.Intent
	seq     int

	// ConfirmStatus статус после подтверждения (по умолчанию succeeded)
	ConfirmStatus domain.IntentStatus
	// ConfirmErr ошибка подтверждения (отказ карты, недоступность)
	ConfirmErr error
	// ChargeDespiteErr вместе с ConfirmErr: ответ потерян, но платеж проведен
	ChargeDespiteErr bool
	// ConfirmAmount если задан, провайдер сообщает эту сумму вместо суммы намерения
	ConfirmAmount int64
	// ProcessingFee комиссия провайдера при проведении
	ProcessingFee int64
	// BeforeConfirm вызывается до подтверждения (имитация параллельных изменений)
	BeforeConfirm func()
	// CreateErr ошибка создания намерения
	CreateErr error
	// RefundErr ошибка возврата
	RefundErr error
	// RetrieveErr ошибка чтения намерения
	RetrieveErr error

	CreateCalls   int
	ConfirmCalls  int
	CancelCalls   int
	RetrieveCalls int
	RefundCalls   int
	Refunds      []stripeprovider.RefundRequest
}

// NewProvider создает fake провайдера, подтверждающего любые платежи
func NewProvider() *Provider {
	return &Provider{
		byKey:         make(map[string]*stripeprovider.Intent),
		intents:       make(map[string]*stripeprovider.Intent),
		ConfirmStatus: domain.IntentSucceeded,
	}
}

func (p *Provider) CreateIntent(ctx context.Context, req stripeprovider.IntentRequest) (*stripeprovider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CreateCalls++
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	if existing, ok := p.byKey[req.IdempotencyKey]; ok {
		cp := *existing
		return &cp, nil
	}
	p.seq++
	intent := &stripeprovider.Intent{
		ID:           fmt.Sprintf("pi_%d", p.seq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", p.seq),
		Status:       domain.IntentRequiresConfirmation,
		Amount:       req.Amount,
		Currency:     req.Currency,
	}
	p.byKey[req.IdempotencyKey] = intent
	p.intents[intent.ID] = intent
	cp := *intent
	return &cp, nil
}

func (p *Provider) ConfirmIntent(ctx context.Context, providerIntentID string, paymentMethodID string) (*stripeprovider.Intent, error) {
	if p.BeforeConfirm != nil {
		p.BeforeConfirm()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ConfirmCalls++
	intent, ok := p.intents[providerIntentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent %s", stripeprovider.ErrProvider, providerIntentID)
	}
	intent.PaymentMethodID = paymentMethodID
	if p.ConfirmErr != nil {
		if p.ChargeDespiteErr {
			p.charge(intent)
			return nil, p.ConfirmErr
		}
		intent.Status = domain.IntentFailed
		cp := *intent
		return &cp, p.ConfirmErr
	}
	intent.Status = p.ConfirmStatus
	if intent.Status == domain.IntentSucceeded {
		p.charge(intent)
	}
	cp := *intent
	return &cp, nil
}

// Settle проводит платеж у провайдера в обход подтверждения (асинхронный способ оплаты)
func (p *Provider) Settle(providerIntentID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if intent, ok := p.intents[providerIntentID]; ok {
		p.charge(intent)
	}
}

func (p *Provider) charge(intent *stripeprovider.Intent) {
	intent.Status = domain.IntentSucceeded
	intent.ChargeID = "ch_" + intent.ID
	intent.ProcessingFee = p.ProcessingFee
	if p.ConfirmAmount != 0 {
		intent.Amount = p.ConfirmAmount
	}
}

func (p *Provider) RetrieveIntent(ctx context.Context, providerIntentID string) (*stripeprovider.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RetrieveCalls++
	if p.RetrieveErr != nil {
		return nil, p.RetrieveErr
	}
	intent, ok := p.intents[providerIntentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent %s", stripeprovider.ErrProvider, providerIntentID)
	}
	cp := *intent
	return &cp, nil
}

func (p *Provider) CancelIntent(ctx context.Context, providerIntentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CancelCalls++
	intent, ok := p.intents[providerIntentID]
	if !ok {
		return nil
	}
	// Проведенное или проводимое намерение отменить нельзя
	if intent.Status == domain.IntentSucceeded || intent.Status == domain.IntentProcessing {
		return fmt.Errorf("%w: cannot cancel intent %s in status %s", stripeprovider.ErrProvider, intent.ID, intent.Status)
	}
	intent.Status = domain.IntentCanceled
	return nil
}

func (p *Provider) Refund(ctx context.Context, req stripeprovider.RefundRequest) (*stripeprovider.Refund, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RefundCalls++
	if p.RefundErr != nil {
		return nil, p.RefundErr
	}
	p.Refunds = append(p.Refunds, req)
	return &stripeprovider.Refund{
		ID:     fmt.Sprintf("re_%d", len(p.Refunds)),
		Status: domain.RefundSucceeded,
	}, nil
}
