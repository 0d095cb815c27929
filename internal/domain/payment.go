package domain

import (
	"fmt"
	"time"
)

// IntentStatus lifecycle of a payment intent, advanced only by provider responses
type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentFailed                IntentStatus = "failed"
	IntentCanceled              IntentStatus = "canceled"
)

// IsTerminal returns true if the intent can no longer change
func (s IntentStatus) IsTerminal() bool {
	return s == IntentSucceeded || s == IntentFailed || s == IntentCanceled
}

// OpenIntentStatuses non-terminal intent states
var OpenIntentStatuses = []IntentStatus{
	IntentRequiresPaymentMethod,
	IntentRequiresConfirmation,
	IntentRequiresAction,
	IntentProcessing,
}

// PaymentIntent is the single payment attempt bound to a booking
type PaymentIntent struct {
	ID                 int64
	BookingID          int64
	ProviderIntentID   string
	Amount             int64
	Currency           string
	PlatformFee        int64
	PractitionerAmount int64
	Status             IntentStatus
	ClientSecret       string
	PaymentMethodID    *string
	DestinationAccount string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Split returns the monetary split recorded on the intent
func (p *PaymentIntent) Split() Split {
	return Split{Total: p.Amount, PlatformFee: p.PlatformFee, PractitionerAmount: p.PractitionerAmount}
}

// CheckAgainst verifies conservation and that the amount equals the booking's agreed price
func (p *PaymentIntent) CheckAgainst(b *Booking) error {
	if err := p.Split().Validate(); err != nil {
		return err
	}
	expected, err := b.AgreedPriceMinor()
	if err != nil {
		return err
	}
	if p.Amount != expected {
		return fmt.Errorf("%w: intent amount %d, booking agreed price %d", ErrAmountMismatch, p.Amount, expected)
	}
	return nil
}

// TransactionStatus settlement record state
type TransactionStatus string

const (
	TransactionCompleted         TransactionStatus = "completed"
	TransactionPartiallyRefunded TransactionStatus = "partially_refunded"
	TransactionRefunded          TransactionStatus = "refunded"
)

// BookingPaymentStatus maps the settlement state onto the booking-level payment mirror
func (s TransactionStatus) BookingPaymentStatus() BookingPaymentStatus {
	switch s {
	case TransactionRefunded:
		return PaymentRefunded
	case TransactionPartiallyRefunded:
		return PaymentPartiallyRefunded
	default:
		return PaymentPaid
	}
}

// PaymentTransaction durable record of a settled charge
type PaymentTransaction struct {
	ID                 int64
	PaymentIntentID    int64
	BookingID          int64
	PractitionerID     int64
	SeekerID           int64
	ProviderChargeID   string
	TotalAmount        int64
	PlatformFee        int64
	PractitionerAmount int64
	ProcessingFee      int64
	Currency           string
	Status             TransactionStatus
	RefundedAmount     int64 // includes refunds reserved but not yet accepted by the provider
	ChargedAt          time.Time
	TransferredAt      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RefundableBalance total_amount - refunded so far
func (t *PaymentTransaction) RefundableBalance() int64 {
	return t.TotalAmount - t.RefundedAmount
}

// Split returns the original split of the charge
func (t *PaymentTransaction) Split() Split {
	return Split{Total: t.TotalAmount, PlatformFee: t.PlatformFee, PractitionerAmount: t.PractitionerAmount}
}

// BookingPaymentStatus returns the booking-level mirror of this transaction
func (t *PaymentTransaction) BookingPaymentStatus() BookingPaymentStatus {
	switch {
	case t.RefundedAmount >= t.TotalAmount:
		return PaymentRefunded
	case t.RefundedAmount > 0:
		return PaymentPartiallyRefunded
	default:
		return PaymentPaid
	}
}

// RefundStatus state of a refund
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// PaymentRefund money returned against a transaction
type PaymentRefund struct {
	ID                 int64
	TransactionID      int64
	ProviderRefundID   *string
	Amount             int64
	PlatformFeeRefund  int64
	PractitionerRefund int64
	Reason             string
	InitiatedBy        Actor
	Status             RefundStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
