package booking

import "github.com/m04kA/SessionBookingService/internal/domain"

// TransitionUpdate дополнительные поля, которые меняются вместе со статусом
type TransitionUpdate struct {
	PaymentStatus      *domain.BookingPaymentStatus
	CancellationReason *string
	CancelledBy        *domain.Actor
	SessionNotes       *string
	MarkCancelled      bool // cancelled_at = NOW()
	MarkCompleted      bool // completed_at = NOW()
}
