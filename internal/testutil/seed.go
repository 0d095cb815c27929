package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

// PendingBooking бронирование в статусе pending на завтра с указанной ценой
func PendingBooking(seekerID, practitionerID int64, price string) domain.Booking {
	return domain.Booking{
		SeekerID:          seekerID,
		PractitionerID:    practitionerID,
		ServiceOfferingID: 1,
		SessionDate:       time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour),
		StartTime:         "10:00",
		EndTime:           "11:00",
		Timezone:          "UTC",
		SessionType:       domain.SessionRemote,
		Status:            domain.StatusPending,
		PaymentStatus:     domain.PaymentUnpaid,
		AgreedPrice:       decimal.RequireFromString(price),
		Currency:          domain.DefaultCurrency,
	}
}

// SeedPaid сохраняет бронирование в статусе confirmed вместе с проведенным
// намерением и транзакцией на полную цену бронирования
func (s *Store) SeedPaid(b domain.Booking, feeRate string) (*domain.Booking, *domain.PaymentIntent, *domain.PaymentTransaction) {
	ctx := context.Background()

	total, err := b.AgreedPriceMinor()
	if err != nil {
		panic(err)
	}
	split, err := domain.ComputeSplit(total, decimal.RequireFromString(feeRate))
	if err != nil {
		panic(err)
	}

	b.Status = domain.StatusConfirmed
	b.PaymentStatus = domain.PaymentPaid
	booking := s.Bookings.Put(b)

	intent, err := s.Payments.CreateIntent(ctx, &domain.PaymentIntent{
		BookingID:          booking.ID,
		ProviderIntentID:   fmt.Sprintf("pi_seed_%d", booking.ID),
		Amount:             split.Total,
		Currency:           booking.Currency,
		PlatformFee:        split.PlatformFee,
		PractitionerAmount: split.PractitionerAmount,
		Status:             domain.IntentSucceeded,
		ClientSecret:       "secret",
		DestinationAccount: "acct_practitioner",
	})
	if err != nil {
		panic(err)
	}

	txn, err := s.Payments.CreateTransaction(ctx, &domain.PaymentTransaction{
		PaymentIntentID:    intent.ID,
		BookingID:          booking.ID,
		PractitionerID:     booking.PractitionerID,
		SeekerID:           booking.SeekerID,
		ProviderChargeID:   "ch_seed",
		TotalAmount:        split.Total,
		PlatformFee:        split.PlatformFee,
		PractitionerAmount: split.PractitionerAmount,
		Currency:           booking.Currency,
		ChargedAt:          s.Now(),
	})
	if err != nil {
		panic(err)
	}

	return booking, intent, txn
}
