package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending       BookingStatus = "pending"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusCompleted     BookingStatus = "completed"
	StatusNoShow        BookingStatus = "no_show"
	StatusPaymentFailed BookingStatus = "payment_failed"
	StatusCancelling    BookingStatus = "cancelling" // slot released, refund not yet accepted by provider
	StatusCancelled     BookingStatus = "cancelled"
)

// SessionType remote or in-person session
type SessionType string

const (
	SessionRemote   SessionType = "remote"
	SessionInPerson SessionType = "in_person"
)

// BookingPaymentStatus mirrors the payment lifecycle on the booking record
type BookingPaymentStatus string

const (
	PaymentUnpaid               BookingPaymentStatus = "unpaid"
	PaymentRequiresConfirmation BookingPaymentStatus = "requires_confirmation"
	PaymentPaid                 BookingPaymentStatus = "paid"
	PaymentFailed               BookingPaymentStatus = "failed"
	PaymentPartiallyRefunded    BookingPaymentStatus = "partially_refunded"
	PaymentRefunded             BookingPaymentStatus = "refunded"
)

// Actor who initiated a cancellation or refund
type Actor string

const (
	ActorSeeker       Actor = "seeker"
	ActorPractitioner Actor = "practitioner"
	ActorPlatform     Actor = "platform"
)

// Booking represents one seeker's reservation of a practitioner's service offering
type Booking struct {
	ID                int64
	SeekerID          int64
	PractitionerID    int64
	ServiceOfferingID int64
	TimeSlotID        *int64 // nil = ad-hoc booking, bypasses the slot ledger

	SessionDate time.Time
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Timezone    string
	SessionType SessionType

	Status        BookingStatus
	PaymentStatus BookingPaymentStatus

	// AgreedPrice is frozen from the offering at creation time and never recalculated
	AgreedPrice decimal.Decimal
	Currency    string

	PrepNotes    *string
	SessionNotes *string

	CancellationReason *string
	CancelledBy        *Actor
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeCancelled returns true if cancel_booking may start or resume for this booking
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending ||
		b.Status == StatusConfirmed ||
		b.Status == StatusCancelling ||
		b.Status == StatusPaymentFailed
}

// IsTerminal returns true for states that are never left
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// AgreedPriceMinor returns the agreed price in minor currency units
func (b *Booking) AgreedPriceMinor() (int64, error) {
	return ToMinorUnits(b.AgreedPrice)
}

// BelongsTo returns true if the user is the seeker or the practitioner of the booking
func (b *Booking) BelongsTo(userID int64) bool {
	return b.SeekerID == userID || b.PractitionerID == userID
}

// SessionEnd returns the absolute end of the session in its own timezone
func (b *Booking) SessionEnd() (time.Time, error) {
	return combineDateTime(b.SessionDate, b.EndTime, b.Timezone)
}

// SessionStart returns the absolute start of the session in its own timezone
func (b *Booking) SessionStart() (time.Time, error) {
	return combineDateTime(b.SessionDate, b.StartTime, b.Timezone)
}

func combineDateTime(date time.Time, clock string, timezone string) (time.Time, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q: %w", timezone, err)
		}
		loc = l
	}

	t, err := time.Parse(TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// OccupiesSlot returns true for states that hold slot capacity
func (s BookingStatus) OccupiesSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true for states that are never left
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusNoShow || s == StatusCancelled
}

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow,
		StatusPaymentFailed, StatusCancelling, StatusCancelled:
		return true
	}
	return false
}

// IsValid returns true for known session types
func (t SessionType) IsValid() bool {
	return t == SessionRemote || t == SessionInPerson
}

// BookingsFilter фильтр для списка бронирований практика
type BookingsFilter struct {
	PractitionerID int64          // Обязательный параметр
	StartDate      *time.Time     // Начало периода (опционально)
	EndDate        *time.Time     // Конец периода (опционально)
	Status         *BookingStatus // Фильтр по статусу (опционально)
}
