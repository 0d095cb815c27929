package create_payment_intent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

const (
	seekerID       = int64(1)
	practitionerID = int64(2)
)

type fixture struct {
	uc        *UseCase
	store     *testutil.Store
	provider  *testutil.Provider
	offerings *testutil.Offerings
	metrics   *testutil.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	provider := testutil.NewProvider()
	offerings := testutil.NewOfferings()
	offerings.AddOffering(1, practitionerID, "100.00")
	m := testutil.NewMetrics()

	uc := NewUseCase(store.Bookings, store.Payments, offerings, provider, store.Tx, m,
		decimal.RequireFromString("0.15"), testutil.NopLogger{})

	return &fixture{uc: uc, store: store, provider: provider, offerings: offerings, metrics: m}
}

func (f *fixture) pending(price string) *domain.Booking {
	return f.store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, price))
}

func TestExecute_CreatesSplitIntent(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
	require.NoError(t, err)

	assert.False(t, resp.Reused)
	assert.Equal(t, int64(10000), resp.Amount)
	assert.Equal(t, int64(1500), resp.PlatformFee)
	assert.Equal(t, int64(8500), resp.PractitionerAmount)
	assert.NotEmpty(t, resp.ClientSecret)

	stored, err := f.store.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRequiresConfirmation, stored.PaymentStatus)
	assert.Equal(t, 1, f.metrics.Count("payment_intents:created"))
}

func TestExecute_ConservationAtBoundaryPrices(t *testing.T) {
	for _, price := range []string{"0.01", "0.07", "33.33", "9999.99"} {
		t.Run(price, func(t *testing.T) {
			f := newFixture(t)
			booking := f.pending(price)

			resp, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
			require.NoError(t, err)

			expected := decimal.RequireFromString(price).Mul(decimal.NewFromInt(100)).IntPart()
			assert.Equal(t, expected, resp.Amount)
			assert.Equal(t, resp.Amount, resp.PlatformFee+resp.PractitionerAmount)
			assert.GreaterOrEqual(t, resp.PlatformFee, int64(0))
		})
	}
}

func TestExecute_SecondCallReturnsSameIntent(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")
	req := &Request{BookingID: booking.ID, SeekerID: seekerID}

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.Equal(t, first.IntentID, second.IntentID)
	assert.Equal(t, first.ProviderIntentID, second.ProviderIntentID)
	assert.Equal(t, 1, f.store.Payments.IntentCount(booking.ID))
	assert.Equal(t, 1, f.provider.CreateCalls)
}

func TestExecute_RetryAfterLostPersistenceReusesProviderIntent(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")
	req := &Request{BookingID: booking.ID, SeekerID: seekerID}

	f.store.Payments.CreateIntentErr = errors.New("connection reset")
	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInternal)

	stored, err := f.store.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)

	f.store.Payments.CreateIntentErr = nil
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "pi_1", resp.ProviderIntentID)
	assert.Equal(t, 2, f.provider.CreateCalls)
	assert.Equal(t, 1, f.store.Payments.IntentCount(booking.ID))
}

func TestExecute_ConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")

	const callers = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			ids[resp.ProviderIntentID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, f.store.Payments.IntentCount(booking.ID))
}

func TestExecute_ExistingIntentWithWrongAmountIsFatal(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")

	_, err := f.store.Payments.CreateIntent(context.Background(), &domain.PaymentIntent{
		BookingID:          booking.ID,
		ProviderIntentID:   "pi_tampered",
		Amount:             9000,
		Currency:           "usd",
		PlatformFee:        1350,
		PractitionerAmount: 7650,
		Status:             domain.IntentRequiresConfirmation,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
	require.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, 1, f.metrics.Count("consistency_errors:intent_amount"))
}

func TestExecute_ProviderReportsDifferentAmount(t *testing.T) {
	f := newFixture(t)
	booking := f.pending("100.00")

	uc := NewUseCase(f.store.Bookings, f.store.Payments, f.offerings, skewedProvider{f.provider}, f.store.Tx, f.metrics,
		decimal.RequireFromString("0.15"), testutil.NopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
	require.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, 0, f.store.Payments.IntentCount(booking.ID))
}

func TestExecute_Rejections(t *testing.T) {
	t.Run("another seeker", func(t *testing.T) {
		f := newFixture(t)
		booking := f.pending("100.00")

		_, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: 99})
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("booking not pending", func(t *testing.T) {
		f := newFixture(t)
		b := testutil.PendingBooking(seekerID, practitionerID, "100.00")
		b.Status = domain.StatusCancelled
		booking := f.store.Bookings.Put(b)

		_, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("practitioner without payouts", func(t *testing.T) {
		f := newFixture(t)
		booking := f.pending("100.00")
		f.offerings.SetPayoutAccount(practitionerID, &domain.PayoutAccount{
			PractitionerID:     practitionerID,
			DestinationAccount: "acct_1",
			PayoutsEnabled:     false,
		})

		_, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
		require.ErrorIs(t, err, ErrPractitionerNotPayable)
		assert.Equal(t, 0, f.provider.CreateCalls)
	})

	t.Run("practitioner without account", func(t *testing.T) {
		f := newFixture(t)
		booking := f.pending("100.00")
		f.offerings.SetPayoutAccount(practitionerID, nil)

		_, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
		require.ErrorIs(t, err, ErrPractitionerNotPayable)
	})

	t.Run("provider down", func(t *testing.T) {
		f := newFixture(t)
		booking := f.pending("100.00")
		f.provider.CreateErr = fmt.Errorf("provider unavailable")

		_, err := f.uc.Execute(context.Background(), &Request{BookingID: booking.ID, SeekerID: seekerID})
		require.ErrorIs(t, err, ErrPaymentProvider)
		assert.Equal(t, 1, f.metrics.Count("payment_intents:error"))
	})
}
