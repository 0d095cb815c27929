package testutil

import (
	"context"
	"sort"

	"github.com/m04kA/SessionBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SessionBookingService/internal/infra/storage/payment"
)

// Payments in-memory репозиторий намерений, транзакций и возвратов
type Payments struct {
	s *Store

	// CreateIntentErr если задан, CreateIntent возвращает эту ошибку
	CreateIntentErr error
}

func (r *Payments) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) (*domain.PaymentIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.CreateIntentErr != nil {
		return nil, r.CreateIntentErr
	}
	for _, existing := range r.s.intents {
		if existing.BookingID == intent.BookingID {
			return nil, paymentRepo.ErrIntentExists
		}
	}
	intent.ID = r.s.nextID()
	intent.CreatedAt = r.s.Now()
	intent.UpdatedAt = intent.CreatedAt
	cp := *intent
	r.s.intents[intent.ID] = &cp
	id := intent.ID
	r.s.record(ctx, func() { delete(r.s.intents, id) })
	return intent, nil
}

func (r *Payments) GetIntentByID(ctx context.Context, id int64) (*domain.PaymentIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	intent, ok := r.s.intents[id]
	if !ok {
		return nil, paymentRepo.ErrIntentNotFound
	}
	cp := *intent
	return &cp, nil
}

func (r *Payments) GetIntentByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, intent := range r.s.intents {
		if intent.BookingID == bookingID {
			cp := *intent
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrIntentNotFound
}

// IntentCount количество намерений для бронирования
func (r *Payments) IntentCount(bookingID int64) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, intent := range r.s.intents {
		if intent.BookingID == bookingID {
			n++
		}
	}
	return n
}

func (r *Payments) UpdateIntentStatus(
	ctx context.Context,
	id int64,
	from []domain.IntentStatus,
	to domain.IntentStatus,
	paymentMethodID *string,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	intent, ok := r.s.intents[id]
	if !ok {
		return paymentRepo.ErrIntentStatusConflict
	}
	matched := false
	for _, s := range from {
		if intent.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return paymentRepo.ErrIntentStatusConflict
	}
	prev := *intent
	intent.Status = to
	if paymentMethodID != nil {
		pm := *paymentMethodID
		intent.PaymentMethodID = &pm
	}
	r.s.record(ctx, func() { *intent = prev })
	return nil
}

func (r *Payments) CreateTransaction(ctx context.Context, txn *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.PaymentIntentID == txn.PaymentIntentID {
			return nil, paymentRepo.ErrTransactionExists
		}
	}
	txn.ID = r.s.nextID()
	txn.Status = domain.TransactionCompleted
	txn.RefundedAmount = 0
	txn.CreatedAt = r.s.Now()
	txn.UpdatedAt = txn.CreatedAt
	cp := *txn
	r.s.transactions[txn.ID] = &cp
	id := txn.ID
	r.s.record(ctx, func() { delete(r.s.transactions, id) })
	return txn, nil
}

func (r *Payments) GetTransactionByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.transactions[id]
	if !ok {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	cp := *txn
	return &cp, nil
}

func (r *Payments) GetTransactionByBookingID(ctx context.Context, bookingID int64) (*domain.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, txn := range r.s.transactions {
		if txn.BookingID == bookingID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrTransactionNotFound
}

// ReserveRefund атомарно проверяет баланс, резервирует сумму и возвращает новый refunded_amount
func (r *Payments) ReserveRefund(ctx context.Context, transactionID int64, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.transactions[transactionID]
	if !ok || txn.RefundedAmount+amount > txn.TotalAmount {
		return 0, paymentRepo.ErrRefundExceedsBalance
	}
	txn.RefundedAmount += amount
	r.s.record(ctx, func() { txn.RefundedAmount -= amount })
	return txn.RefundedAmount, nil
}

func (r *Payments) ReleaseRefund(ctx context.Context, transactionID int64, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.transactions[transactionID]
	if !ok {
		return paymentRepo.ErrTransactionNotFound
	}
	prev := txn.RefundedAmount
	txn.RefundedAmount -= amount
	if txn.RefundedAmount < 0 {
		txn.RefundedAmount = 0
	}
	r.s.record(ctx, func() { txn.RefundedAmount = prev })
	return nil
}

func (r *Payments) FinalizeTransactionStatus(ctx context.Context, transactionID int64) (domain.TransactionStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.transactions[transactionID]
	if !ok {
		return "", paymentRepo.ErrTransactionNotFound
	}
	prev := txn.Status
	switch {
	case txn.RefundedAmount >= txn.TotalAmount:
		txn.Status = domain.TransactionRefunded
	case txn.RefundedAmount > 0:
		txn.Status = domain.TransactionPartiallyRefunded
	default:
		txn.Status = domain.TransactionCompleted
	}
	r.s.record(ctx, func() { txn.Status = prev })
	return txn.Status, nil
}

func (r *Payments) CreateRefund(ctx context.Context, refund *domain.PaymentRefund) (*domain.PaymentRefund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	refund.ID = r.s.nextID()
	refund.Status = domain.RefundPending
	refund.CreatedAt = r.s.Now()
	refund.UpdatedAt = refund.CreatedAt
	cp := *refund
	r.s.refunds[refund.ID] = &cp
	id := refund.ID
	r.s.record(ctx, func() { delete(r.s.refunds, id) })
	return refund, nil
}

func (r *Payments) MarkRefund(ctx context.Context, refundID int64, status domain.RefundStatus, providerRefundID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	refund, ok := r.s.refunds[refundID]
	if !ok || refund.Status != domain.RefundPending {
		return paymentRepo.ErrRefundNotFound
	}
	prev := *refund
	refund.Status = status
	if providerRefundID != nil {
		id := *providerRefundID
		refund.ProviderRefundID = &id
	}
	r.s.record(ctx, func() { *refund = prev })
	return nil
}

func (r *Payments) ListRefundsByTransaction(ctx context.Context, transactionID int64) ([]*domain.PaymentRefund, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.PaymentRefund, 0)
	for _, refund := range r.s.refunds {
		if refund.TransactionID == transactionID {
			cp := *refund
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
