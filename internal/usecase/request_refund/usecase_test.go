package request_refund

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const (
	seekerID       = int64(1)
	practitionerID = int64(2)
)

type fixture struct {
	uc       *UseCase
	store    *testutil.Store
	provider *testutil.Provider
	metrics  *testutil.Metrics
	booking  *domain.Booking
	txn      *domain.PaymentTransaction
}

// newFixture оплаченное бронирование на 100.00 с комиссией 15%
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	provider := testutil.NewProvider()
	m := testutil.NewMetrics()

	booking, _, txn := store.SeedPaid(testutil.PendingBooking(seekerID, practitionerID, "100.00"), "0.15")

	return &fixture{
		uc:       NewUseCase(store.Payments, store.Bookings, provider, store.Tx, m, testutil.NopLogger{}),
		store:    store,
		provider: provider,
		metrics:  m,
		booking:  booking,
		txn:      txn,
	}
}

func (f *fixture) transaction(t *testing.T) *domain.PaymentTransaction {
	t.Helper()
	txn, err := f.store.Payments.GetTransactionByID(context.Background(), f.txn.ID)
	require.NoError(t, err)
	return txn
}

func TestExecute_FullRefundByDefault(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		TransactionID: f.txn.ID,
		ActorID:       practitionerID,
		Reason:        "session moved",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), resp.Amount)
	assert.Equal(t, int64(1500), resp.PlatformFeeRefund)
	assert.Equal(t, int64(8500), resp.PractitionerRefund)
	assert.Equal(t, string(domain.TransactionRefunded), resp.TransactionStatus)
	assert.Equal(t, int64(0), resp.RemainingBalance)

	require.Len(t, f.provider.Refunds, 1)
	assert.Equal(t, fmt.Sprintf("refund-%d", resp.RefundID), f.provider.Refunds[0].IdempotencyKey)
	assert.Equal(t, int64(10000), f.provider.Refunds[0].Amount)

	booking, err := f.store.Bookings.GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, booking.PaymentStatus)

	refunds, err := f.store.Payments.ListRefundsByTransaction(context.Background(), f.txn.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, domain.RefundSucceeded, refunds[0].Status)
	assert.Equal(t, domain.ActorPractitioner, refunds[0].InitiatedBy)
	assert.Equal(t, 1, f.metrics.Count("refunds:succeeded"))
}

func TestExecute_PartialRefundsUpToTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &Request{TransactionID: f.txn.ID, ActorID: practitionerID, Amount: ptr.Ptr(int64(3333))})
	require.NoError(t, err)
	assert.Equal(t, string(domain.TransactionPartiallyRefunded), resp.TransactionStatus)
	assert.Equal(t, resp.Amount, resp.PlatformFeeRefund+resp.PractitionerRefund)

	booking, err := f.store.Bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartiallyRefunded, booking.PaymentStatus)

	resp, err = f.uc.Execute(ctx, &Request{TransactionID: f.txn.ID, ActorID: practitionerID})
	require.NoError(t, err)
	assert.Equal(t, int64(6667), resp.Amount)
	assert.Equal(t, string(domain.TransactionRefunded), resp.TransactionStatus)

	_, err = f.uc.Execute(ctx, &Request{TransactionID: f.txn.ID, ActorID: practitionerID, Amount: ptr.Ptr(int64(1))})
	require.ErrorIs(t, err, ErrRefundExceedsBalance)

	assert.Equal(t, 2, f.provider.RefundCalls)
	assert.Equal(t, int64(10000), f.transaction(t).RefundedAmount)
}

func TestExecute_SmallPartialRefundsKeepOriginalSplit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	provider := testutil.NewProvider()
	uc := NewUseCase(store.Payments, store.Bookings, provider, store.Tx, testutil.NewMetrics(), testutil.NopLogger{})

	// 10.00 при комиссии 15%: платформа 150, практик 850
	_, _, txn := store.SeedPaid(testutil.PendingBooking(seekerID, practitionerID, "10.00"), "0.15")
	require.Equal(t, int64(150), txn.PlatformFee)

	var platformTotal, practitionerTotal int64
	for i := 0; i < 200; i++ {
		resp, err := uc.Execute(ctx, &Request{TransactionID: txn.ID, ActorID: practitionerID, Amount: ptr.Ptr(int64(5))})
		require.NoError(t, err, "refund #%d", i+1)
		platformTotal += resp.PlatformFeeRefund
		practitionerTotal += resp.PractitionerRefund
		require.LessOrEqual(t, platformTotal, txn.PlatformFee, "refund #%d", i+1)
	}

	assert.Equal(t, txn.PlatformFee, platformTotal)
	assert.Equal(t, txn.PractitionerAmount, practitionerTotal)

	refunds, err := store.Payments.ListRefundsByTransaction(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 200)

	var storedPlatform, storedPractitioner int64
	for _, refund := range refunds {
		storedPlatform += refund.PlatformFeeRefund
		storedPractitioner += refund.PractitionerRefund
	}
	assert.Equal(t, int64(150), storedPlatform)
	assert.Equal(t, int64(850), storedPractitioner)
}

func TestExecute_OverdrawRejectedBeforeProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		TransactionID: f.txn.ID,
		ActorID:       practitionerID,
		Amount:        ptr.Ptr(int64(10001)),
	})
	require.ErrorIs(t, err, ErrRefundExceedsBalance)

	assert.Equal(t, 0, f.provider.RefundCalls)
	txn := f.transaction(t)
	assert.Equal(t, int64(0), txn.RefundedAmount)
	assert.Equal(t, domain.TransactionCompleted, txn.Status)
	assert.Equal(t, 1, f.metrics.Count("refunds:rejected"))
}

func TestExecute_OnlyPractitionerMayRefund(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{TransactionID: f.txn.ID, ActorID: seekerID})
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, f.provider.RefundCalls)
}

func TestExecute_SystemRefundRecordsInitiator(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		TransactionID: f.txn.ID,
		System:        true,
		InitiatedBy:   domain.ActorSeeker,
		Reason:        "cancelled by seeker",
	})
	require.NoError(t, err)

	refunds, err := f.store.Payments.ListRefundsByTransaction(context.Background(), f.txn.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, domain.ActorSeeker, refunds[0].InitiatedBy)
}

func TestExecute_ProviderFailureReleasesReservation(t *testing.T) {
	f := newFixture(t)
	f.provider.RefundErr = fmt.Errorf("%w: timeout", stripeprovider.ErrProvider)

	_, err := f.uc.Execute(context.Background(), &Request{TransactionID: f.txn.ID, ActorID: practitionerID})
	require.ErrorIs(t, err, ErrRefundFailed)

	txn := f.transaction(t)
	assert.Equal(t, int64(0), txn.RefundedAmount)
	assert.Equal(t, domain.TransactionCompleted, txn.Status)

	refunds, err := f.store.Payments.ListRefundsByTransaction(context.Background(), f.txn.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, domain.RefundFailed, refunds[0].Status)
	assert.Equal(t, 1, f.metrics.Count("refunds:failed"))
}

func TestExecute_UnknownTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{TransactionID: 999, ActorID: practitionerID})
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestExecute_ConcurrentRefundsNeverExceedTotal(t *testing.T) {
	f := newFixture(t)

	const callers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				TransactionID: f.txn.ID,
				ActorID:       practitionerID,
				Amount:        ptr.Ptr(int64(2000)),
			})
			if err != nil && !errors.Is(err, ErrRefundExceedsBalance) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	txn := f.transaction(t)
	assert.Equal(t, int64(10000), txn.RefundedAmount)
	assert.Equal(t, domain.TransactionRefunded, txn.Status)
}
