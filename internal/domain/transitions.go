package domain

import "fmt"

// BookingEvent drives a booking from one state to the next
type BookingEvent string

const (
	EventPaymentSucceeded BookingEvent = "payment_succeeded"
	EventPaymentFailed    BookingEvent = "payment_failed"
	EventCancel           BookingEvent = "cancel"             // no money moved
	EventCancelWithRefund BookingEvent = "cancel_with_refund" // money moved, refund pending
	EventRefundAccepted   BookingEvent = "refund_accepted"
	EventAttended         BookingEvent = "attended"
	EventNotAttended      BookingEvent = "not_attended"
)

// transitions is the complete booking lifecycle. Every edge moves forward,
// no state is revisited and nothing leads back to pending.
var transitions = map[BookingStatus]map[BookingEvent]BookingStatus{
	StatusPending: {
		EventPaymentSucceeded: StatusConfirmed,
		EventPaymentFailed:    StatusPaymentFailed,
		EventCancel:           StatusCancelled,
		EventCancelWithRefund: StatusCancelling,
	},
	StatusConfirmed: {
		EventCancel:           StatusCancelled,
		EventCancelWithRefund: StatusCancelling,
		EventAttended:         StatusCompleted,
		EventNotAttended:      StatusNoShow,
	},
	StatusPaymentFailed: {
		EventCancel: StatusCancelled,
	},
	StatusCancelling: {
		EventRefundAccepted: StatusCancelled,
	},
}

// NextStatus returns the state reached from `from` on `event`
func NextStatus(from BookingStatus, event BookingEvent) (BookingStatus, error) {
	to, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// ReleasesSlot reports whether moving from -> to gives back slot capacity.
// Capacity is returned exactly once: on the single edge that leaves an occupying state.
func ReleasesSlot(from, to BookingStatus) bool {
	return from.OccupiesSlot() && !to.OccupiesSlot() && to != StatusCompleted && to != StatusNoShow
}
