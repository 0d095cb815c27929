package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/service/bookings/models"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const (
	seekerID       = int64(1)
	practitionerID = int64(2)
	strangerID     = int64(3)
)

func TestGetByID(t *testing.T) {
	store := testutil.NewStore()
	booking := store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, "45.50"))
	svc := NewService(store.Bookings, store.Reviews, testutil.NopLogger{})

	for _, userID := range []int64{seekerID, practitionerID} {
		resp, err := svc.GetByID(context.Background(), booking.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, resp.ID)
		assert.Equal(t, "45.50", resp.AgreedPrice)
		assert.Equal(t, string(domain.StatusPending), resp.Status)
		assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	}

	_, err := svc.GetByID(context.Background(), booking.ID, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 999, seekerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_IncludesReview(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	completed := testutil.PendingBooking(seekerID, practitionerID, "45.50")
	completed.Status = domain.StatusCompleted
	completed.PaymentStatus = domain.PaymentPaid
	reviewed := store.Bookings.Put(completed)
	unreviewed := store.Bookings.Put(completed)
	svc := NewService(store.Bookings, store.Reviews, testutil.NopLogger{})

	_, err := store.Reviews.Create(ctx, &domain.Review{
		BookingID:      reviewed.ID,
		ReviewerID:     seekerID,
		PractitionerID: practitionerID,
		Rating:         5,
		Comment:        ptr.Ptr("great session"),
	})
	require.NoError(t, err)

	resp, err := svc.GetByID(ctx, reviewed.ID, practitionerID)
	require.NoError(t, err)
	require.NotNil(t, resp.Review)
	assert.Equal(t, 5, resp.Review.Rating)
	require.NotNil(t, resp.Review.Comment)
	assert.Equal(t, "great session", *resp.Review.Comment)

	resp, err = svc.GetByID(ctx, unreviewed.ID, seekerID)
	require.NoError(t, err)
	assert.Nil(t, resp.Review)
}

type failingReviews struct{}

func (failingReviews) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	return nil, errors.New("connection refused")
}

func TestGetByID_ReviewLookupFailure(t *testing.T) {
	store := testutil.NewStore()
	completed := testutil.PendingBooking(seekerID, practitionerID, "45.50")
	completed.Status = domain.StatusCompleted
	booking := store.Bookings.Put(completed)
	pending := store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, "45.50"))
	svc := NewService(store.Bookings, failingReviews{}, testutil.NopLogger{})

	_, err := svc.GetByID(context.Background(), booking.ID, seekerID)
	assert.ErrorIs(t, err, ErrInternal)

	// отзыв запрашивается только у завершенного бронирования
	resp, err := svc.GetByID(context.Background(), pending.ID, seekerID)
	require.NoError(t, err)
	assert.Nil(t, resp.Review)
}

func TestGetSeekerBookings(t *testing.T) {
	store := testutil.NewStore()
	store.Bookings.Put(testutil.PendingBooking(seekerID, practitionerID, "10.00"))
	cancelled := testutil.PendingBooking(seekerID, practitionerID, "20.00")
	cancelled.Status = domain.StatusCancelled
	cancelled.CancelledBy = ptr.Ptr(domain.ActorSeeker)
	store.Bookings.Put(cancelled)
	store.Bookings.Put(testutil.PendingBooking(strangerID, practitionerID, "30.00"))
	svc := NewService(store.Bookings, store.Reviews, testutil.NopLogger{})

	all, err := svc.GetSeekerBookings(context.Background(), &models.GetSeekerBookingsRequest{UserID: seekerID, SeekerID: seekerID})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	onlyCancelled, err := svc.GetSeekerBookings(context.Background(), &models.GetSeekerBookingsRequest{
		UserID:   seekerID,
		SeekerID: seekerID,
		Status:   ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, onlyCancelled.Bookings, 1)
	require.NotNil(t, onlyCancelled.Bookings[0].CancelledBy)
	assert.Equal(t, "seeker", *onlyCancelled.Bookings[0].CancelledBy)

	_, err = svc.GetSeekerBookings(context.Background(), &models.GetSeekerBookingsRequest{
		UserID:   seekerID,
		SeekerID: seekerID,
		Status:   ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetSeekerBookings(context.Background(), &models.GetSeekerBookingsRequest{UserID: strangerID, SeekerID: seekerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetPractitionerBookings(t *testing.T) {
	store := testutil.NewStore()
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		b := testutil.PendingBooking(seekerID, practitionerID, "10.00")
		b.SessionDate = day.AddDate(0, 0, i)
		store.Bookings.Put(b)
	}
	svc := NewService(store.Bookings, store.Reviews, testutil.NopLogger{})

	resp, err := svc.GetPractitionerBookings(context.Background(), &models.GetPractitionerBookingsRequest{
		UserID:         practitionerID,
		PractitionerID: practitionerID,
		StartDate:      ptr.Ptr(day.AddDate(0, 0, 1)),
		EndDate:        ptr.Ptr(day.AddDate(0, 0, 2)),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = svc.GetPractitionerBookings(context.Background(), &models.GetPractitionerBookingsRequest{
		UserID:         practitionerID,
		PractitionerID: practitionerID,
		StartDate:      ptr.Ptr(day.AddDate(0, 0, 2)),
		EndDate:        ptr.Ptr(day),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetPractitionerBookings(context.Background(), &models.GetPractitionerBookingsRequest{UserID: seekerID, PractitionerID: practitionerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
