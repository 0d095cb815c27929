package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow,
	StatusPaymentFailed, StatusCancelling, StatusCancelled,
}

var allEvents = []BookingEvent{
	EventPaymentSucceeded, EventPaymentFailed, EventCancel, EventCancelWithRefund,
	EventRefundAccepted, EventAttended, EventNotAttended,
}

func TestNextStatus_Table(t *testing.T) {
	tests := []struct {
		from  BookingStatus
		event BookingEvent
		to    BookingStatus
	}{
		{StatusPending, EventPaymentSucceeded, StatusConfirmed},
		{StatusPending, EventPaymentFailed, StatusPaymentFailed},
		{StatusPending, EventCancel, StatusCancelled},
		{StatusConfirmed, EventCancelWithRefund, StatusCancelling},
		{StatusCancelling, EventRefundAccepted, StatusCancelled},
		{StatusConfirmed, EventAttended, StatusCompleted},
		{StatusConfirmed, EventNotAttended, StatusNoShow},
		{StatusPaymentFailed, EventCancel, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestNextStatus_CompletedCannotBeCancelled(t *testing.T) {
	_, err := NextStatus(StatusCompleted, EventCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextStatus(StatusCompleted, EventCancelWithRefund)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextStatus_PaymentEventsOnlyFromPending(t *testing.T) {
	for _, from := range allStatuses {
		for _, event := range []BookingEvent{EventPaymentSucceeded, EventPaymentFailed} {
			_, err := NextStatus(from, event)
			if from == StatusPending {
				assert.NoError(t, err)
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", event, from)
		}
	}
}

func TestNextStatus_PaymentFailedCancelsDirectly(t *testing.T) {
	_, err := NextStatus(StatusPaymentFailed, EventCancelWithRefund)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = NextStatus(StatusCancelling, EventCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextStatus_NeverReentersPending(t *testing.T) {
	for _, from := range allStatuses {
		for _, event := range allEvents {
			to, err := NextStatus(from, event)
			if err != nil {
				continue
			}
			assert.NotEqual(t, StatusPending, to, "%s --%s--> pending", from, event)
			assert.NotEqual(t, from, to, "self loop on %s", from)
		}
	}
}

func TestNextStatus_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, event := range allEvents {
			_, err := NextStatus(from, event)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", event, from)
		}
	}
}

func TestReleasesSlot(t *testing.T) {
	assert.True(t, ReleasesSlot(StatusPending, StatusPaymentFailed))
	assert.True(t, ReleasesSlot(StatusPending, StatusCancelled))
	assert.True(t, ReleasesSlot(StatusConfirmed, StatusCancelling))
	assert.False(t, ReleasesSlot(StatusCancelling, StatusCancelled))
	assert.False(t, ReleasesSlot(StatusPaymentFailed, StatusCancelled))
	assert.False(t, ReleasesSlot(StatusConfirmed, StatusCompleted))
	assert.False(t, ReleasesSlot(StatusPending, StatusConfirmed))
}

func TestBooking_SessionEnd(t *testing.T) {
	b := &Booking{
		SessionDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     "19:30",
		Timezone:    "Europe/Berlin",
	}

	end, err := b.SessionEnd()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), end.UTC())

	b.Timezone = "Mars/Olympus"
	_, err = b.SessionEnd()
	assert.Error(t, err)
}

func TestTimeSlot_IsReservable(t *testing.T) {
	slot := &TimeSlot{MaxBookings: 2, CurrentBookings: 1, IsAvailable: true}
	assert.True(t, slot.IsReservable())
	assert.Equal(t, 1, slot.AvailableSpots())

	slot.CurrentBookings = 2
	assert.False(t, slot.IsReservable())

	slot.CurrentBookings = 0
	slot.IsAvailable = false
	assert.False(t, slot.IsReservable())
	assert.Equal(t, 0, slot.AvailableSpots())
}
