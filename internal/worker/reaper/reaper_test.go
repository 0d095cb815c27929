package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/integrations/stripeprovider"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
	"github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	reaper   *Reaper
	store    *testutil.Store
	provider *testutil.Provider
	metrics  *testutil.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	provider := testutil.NewProvider()
	m := testutil.NewMetrics()

	refunder := request_refund.NewUseCase(store.Payments, store.Bookings, provider, store.Tx, m, testutil.NopLogger{})
	reconciler := confirm_payment.NewUseCase(store.Bookings, store.Slots, store.Payments, provider, refunder, store.Tx, m, testutil.NopLogger{})
	canceller := cancel_booking.NewUseCase(store.Bookings, store.Slots, store.Payments, provider, refunder, reconciler, store.Tx, m, testutil.NopLogger{})

	r := New(store.Bookings, canceller, m, testutil.NopLogger{}, Config{
		Interval:       time.Minute,
		AbandonedAfter: 30 * time.Minute,
		BatchSize:      10,
	}).WithTimeProvider(&testutil.Clock{T: now})

	return &fixture{reaper: r, store: store, provider: provider, metrics: m}
}

func (f *fixture) pending(t *testing.T, createdAt time.Time, slotID *int64) *domain.Booking {
	t.Helper()
	b := testutil.PendingBooking(1, 2, "60.00")
	b.CreatedAt = createdAt
	b.TimeSlotID = slotID
	return f.store.Bookings.Put(b)
}

func TestSweepOnce_CancelsAbandonedPending(t *testing.T) {
	f := newFixture(t)
	slot := f.store.Slots.Put(domain.TimeSlot{
		PractitionerID:  2,
		SlotDate:        now.AddDate(0, 0, 1),
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxBookings:     2,
		CurrentBookings: 2,
		IsAvailable:     true,
	})

	old := f.pending(t, now.Add(-2*time.Hour), ptr.Ptr(slot.ID))
	fresh := f.pending(t, now.Add(-5*time.Minute), ptr.Ptr(slot.ID))

	cancelled, err := f.reaper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	reaped, err := f.store.Bookings.GetByID(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, reaped.Status)
	require.NotNil(t, reaped.CancelledBy)
	assert.Equal(t, domain.ActorPlatform, *reaped.CancelledBy)
	require.NotNil(t, reaped.CancellationReason)
	assert.Equal(t, domain.ReasonPaymentTimeout, *reaped.CancellationReason)

	kept, err := f.store.Bookings.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, kept.Status)

	stored, err := f.store.Slots.GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentBookings)
	assert.Equal(t, 1, f.metrics.Count("reaper_cancelled"))
}

func TestSweepOnce_ClosesOpenIntent(t *testing.T) {
	f := newFixture(t)
	booking := f.pending(t, now.Add(-time.Hour), nil)

	_, err := f.store.Payments.CreateIntent(context.Background(), &domain.PaymentIntent{
		BookingID:          booking.ID,
		ProviderIntentID:   "pi_open",
		Amount:             6000,
		Currency:           domain.DefaultCurrency,
		PlatformFee:        900,
		PractitionerAmount: 5100,
		Status:             domain.IntentRequiresConfirmation,
		DestinationAccount: "acct_practitioner",
	})
	require.NoError(t, err)

	cancelled, err := f.reaper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	intent, err := f.store.Payments.GetIntentByBookingID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCanceled, intent.Status)
	assert.Equal(t, 1, f.provider.CancelCalls)
}

func TestSweepOnce_RefundsChargeSettledDuringSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pending(t, now.Add(-time.Hour), nil)

	pi, err := f.provider.CreateIntent(ctx, stripeprovider.IntentRequest{
		BookingID:   booking.ID,
		Amount:      6000,
		Currency:    domain.DefaultCurrency,
		PlatformFee: 900,
	})
	require.NoError(t, err)
	_, err = f.store.Payments.CreateIntent(ctx, &domain.PaymentIntent{
		BookingID:          booking.ID,
		ProviderIntentID:   pi.ID,
		Amount:             6000,
		Currency:           domain.DefaultCurrency,
		PlatformFee:        900,
		PractitionerAmount: 5100,
		Status:             domain.IntentProcessing,
		DestinationAccount: "acct_practitioner",
	})
	require.NoError(t, err)
	f.provider.Settle(pi.ID)

	cancelled, err := f.reaper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	txn, err := f.store.Payments.GetTransactionByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionRefunded, txn.Status)
	assert.Equal(t, 1, f.provider.RefundCalls)

	reaped, err := f.store.Bookings.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, reaped.Status)
	assert.Equal(t, domain.PaymentRefunded, reaped.PaymentStatus)
}

func TestSweepOnce_NothingToDo(t *testing.T) {
	f := newFixture(t)
	f.store.SeedPaid(testutil.PendingBooking(1, 2, "60.00"), "0.15")

	cancelled, err := f.reaper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cancelled)
	assert.Zero(t, f.provider.RefundCalls)
}

func TestSweepOnce_RespectsBatchSize(t *testing.T) {
	f := newFixture(t)
	f.reaper.cfg.BatchSize = 2
	for i := 0; i < 5; i++ {
		f.pending(t, now.Add(-time.Duration(i+1)*time.Hour), nil)
	}

	cancelled, err := f.reaper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)

	cancelled, err = f.reaper.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)
}

type failingBookings struct{}

func (failingBookings) ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Booking, error) {
	return nil, errors.New("connection refused")
}

func TestSweepOnce_ListError(t *testing.T) {
	r := New(failingBookings{}, nil, testutil.NewMetrics(), testutil.NopLogger{}, Config{})

	_, err := r.SweepOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	f := newFixture(t)
	f.pending(t, now.Add(-time.Hour), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.reaper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.metrics.Count("reaper_cancelled") == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}
}
