package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/internal/usecase/cancel_booking"
	"github.com/m04kA/SessionBookingService/internal/usecase/confirm_payment"
	"github.com/m04kA/SessionBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SessionBookingService/internal/usecase/create_payment_intent"
	"github.com/m04kA/SessionBookingService/internal/usecase/request_refund"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const (
	seekerA        = int64(11)
	seekerB        = int64(12)
	practitionerID = int64(20)
	offeringID     = int64(300)
)

func TestLifecycle_SingleSeatSlot(t *testing.T) {
	ctx := context.Background()
	log := testutil.NopLogger{}

	store := testutil.NewStore()
	provider := testutil.NewProvider()
	offerings := testutil.NewOfferings()
	offerings.AddOffering(offeringID, practitionerID, "90.00")
	m := testutil.NewMetrics()

	refunder := request_refund.NewUseCase(store.Payments, store.Bookings, provider, store.Tx, m, log)
	createBooking := create_booking.NewUseCase(store.Bookings, store.Slots, offerings, store.Tx, m, log)
	createIntent := create_payment_intent.NewUseCase(store.Bookings, store.Payments, offerings, provider, store.Tx, m,
		decimal.RequireFromString("0.15"), log)
	confirm := confirm_payment.NewUseCase(store.Bookings, store.Slots, store.Payments, provider, refunder, store.Tx, m, log)
	cancel := cancel_booking.NewUseCase(store.Bookings, store.Slots, store.Payments, provider, refunder, confirm, store.Tx, m, log)

	slot := store.Slots.Put(domain.TimeSlot{
		PractitionerID: practitionerID,
		SlotDate:       time.Now().AddDate(0, 0, 3),
		StartTime:      "09:00",
		EndTime:        "10:00",
		Timezone:       "UTC",
		MaxBookings:    1,
		IsAvailable:    true,
	})
	bookSlot := func(seekerID int64) (*create_booking.Response, error) {
		return createBooking.Execute(ctx, &create_booking.Request{
			SeekerID:          seekerID,
			ServiceOfferingID: offeringID,
			TimeSlotID:        ptr.Ptr(slot.ID),
		})
	}
	occupancy := func() int {
		s, err := store.Slots.GetByID(ctx, slot.ID)
		require.NoError(t, err)
		return s.CurrentBookings
	}

	// A бронирует единственное место
	bookingA, err := bookSlot(seekerA)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), bookingA.Status)

	// A оплачивает
	intent, err := createIntent.Execute(ctx, &create_payment_intent.Request{BookingID: bookingA.ID, SeekerID: seekerA})
	require.NoError(t, err)
	assert.Equal(t, int64(9000), intent.Amount)

	paid, err := confirm.Execute(ctx, &confirm_payment.Request{IntentID: intent.IntentID, SeekerID: seekerA, PaymentMethodID: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), paid.BookingStatus)

	// B не может занять то же место
	_, err = bookSlot(seekerB)
	require.ErrorIs(t, err, create_booking.ErrSlotUnavailable)
	assert.Equal(t, 1, occupancy())

	// A отменяет, деньги возвращаются полностью
	cancelled, err := cancel.Execute(ctx, &cancel_booking.Request{BookingID: bookingA.ID, ActorID: seekerA, Reason: "cannot attend"})
	require.NoError(t, err)
	assert.Equal(t, int64(9000), cancelled.RefundedAmount)
	assert.Equal(t, string(domain.PaymentRefunded), cancelled.PaymentStatus)
	assert.Equal(t, 0, occupancy())

	txn, err := store.Payments.GetTransactionByBookingID(ctx, bookingA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionRefunded, txn.Status)

	// Повторная отмена запрещена, бронирование не возвращается в pending
	_, err = cancel.Execute(ctx, &cancel_booking.Request{BookingID: bookingA.ID, ActorID: seekerA})
	require.ErrorIs(t, err, cancel_booking.ErrInvalidTransition)

	// Теперь место свободно для B
	bookingB, err := bookSlot(seekerB)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), bookingB.Status)
	assert.Equal(t, 1, occupancy())
}
