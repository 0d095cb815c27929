package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/testutil"
)

const (
	seekerID       = int64(1)
	practitionerID = int64(2)
)

func TestGetBookingPayment_Paid(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	booking, intent, txn := store.SeedPaid(testutil.PendingBooking(seekerID, practitionerID, "100.00"), "0.15")

	_, err := store.Payments.ReserveRefund(ctx, txn.ID, 2500)
	require.NoError(t, err)
	_, err = store.Payments.CreateRefund(ctx, &domain.PaymentRefund{
		TransactionID:      txn.ID,
		Amount:             2500,
		PlatformFeeRefund:  375,
		PractitionerRefund: 2125,
		Reason:             "partial",
		InitiatedBy:        domain.ActorPractitioner,
	})
	require.NoError(t, err)

	svc := NewService(store.Bookings, store.Payments, testutil.NopLogger{})
	resp, err := svc.GetBookingPayment(ctx, booking.ID, seekerID)
	require.NoError(t, err)

	require.NotNil(t, resp.Intent)
	assert.Equal(t, intent.ID, resp.Intent.ID)
	assert.Equal(t, int64(10000), resp.Intent.Amount)
	assert.Equal(t, resp.Intent.Amount, resp.Intent.PlatformFee+resp.Intent.PractitionerAmount)

	require.NotNil(t, resp.Transaction)
	assert.Equal(t, int64(2500), resp.Transaction.RefundedAmount)
	assert.Equal(t, int64(7500), resp.Transaction.RefundableBalance)

	require.Len(t, resp.Refunds, 1)
	assert.Equal(t, "practitioner", resp.Refunds[0].InitiatedBy)
	assert.Equal(t, string(domain.RefundPending), resp.Refunds[0].Status)
}

func TestGetBookingPayment_Unpaid(t *testing.T) {
	store := testutil.NewStore()
	booking := store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, "100.00"))
	svc := NewService(store.Bookings, store.Payments, testutil.NopLogger{})

	resp, err := svc.GetBookingPayment(context.Background(), booking.ID, practitionerID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Nil(t, resp.Intent)
	assert.Nil(t, resp.Transaction)
	assert.Empty(t, resp.Refunds)
}

func TestGetBookingPayment_Rejected(t *testing.T) {
	store := testutil.NewStore()
	booking := store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, "100.00"))
	svc := NewService(store.Bookings, store.Payments, testutil.NopLogger{})

	_, err := svc.GetBookingPayment(context.Background(), booking.ID, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetBookingPayment(context.Background(), 12345, seekerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
