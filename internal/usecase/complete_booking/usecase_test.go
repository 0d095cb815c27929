package complete_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SessionBookingService/internal/domain"
	"github.com/m04kA/SessionBookingService/internal/testutil"
	"github.com/m04kA/SessionBookingService/pkg/ptr"
)

const (
	seekerID       = int64(1)
	practitionerID = int64(2)
)

func setup(t *testing.T, status domain.BookingStatus, now time.Time) (*UseCase, *testutil.Store, *domain.Booking) {
	t.Helper()
	store := testutil.NewStore()

	b := testutil.PendingBooking(seekerID, practitionerID, "40.00")
	b.SessionDate = time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	b.StartTime = "10:00"
	b.EndTime = "11:00"
	b.Status = status
	booking := store.Bookings.Put(b)

	uc := NewUseCase(store.Bookings, testutil.NewMetrics(), testutil.NopLogger{}).
		WithTimeProvider(&testutil.Clock{T: now})
	return uc, store, booking
}

func TestExecute_Attended(t *testing.T) {
	uc, store, booking := setup(t, domain.StatusConfirmed, time.Date(2026, 5, 20, 11, 5, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:      booking.ID,
		PractitionerID: practitionerID,
		Attended:       true,
		SessionNotes:   ptr.Ptr("good session"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	stored, err := store.Bookings.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	require.NotNil(t, stored.SessionNotes)
	assert.Equal(t, "good session", *stored.SessionNotes)
}

func TestExecute_NoShow(t *testing.T) {
	uc, _, booking := setup(t, domain.StatusConfirmed, time.Date(2026, 5, 21, 0, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, PractitionerID: practitionerID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), resp.Status)
}

func TestExecute_Rejections(t *testing.T) {
	afterSession := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  domain.BookingStatus
		now     time.Time
		actor   int64
		wantErr error
	}{
		{name: "session not over", status: domain.StatusConfirmed, now: time.Date(2026, 5, 20, 10, 30, 0, 0, time.UTC), actor: practitionerID, wantErr: ErrSessionNotElapsed},
		{name: "pending booking", status: domain.StatusPending, now: afterSession, actor: practitionerID, wantErr: ErrInvalidTransition},
		{name: "cancelled booking", status: domain.StatusCancelled, now: afterSession, actor: practitionerID, wantErr: ErrInvalidTransition},
		{name: "seeker cannot mark attendance", status: domain.StatusConfirmed, now: afterSession, actor: seekerID, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, booking := setup(t, tt.status, tt.now)

			_, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, PractitionerID: tt.actor, Attended: true})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
