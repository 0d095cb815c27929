package domain

// Default configuration values
const (
	DefaultCurrency         = "usd"
	DefaultPlatformFeeRate  = "0.15"
	DefaultAbandonedMinutes = 30
	DefaultReaperBatchSize  = 100
)

// Business validation constants
const (
	MinSlotCapacity             = 1
	MaxSlotCapacity             = 100
	MaxNotesLength              = 2000
	MaxCancellationReasonLength = 500
	MaxRefundReasonLength       = 500
	MaxReviewCommentLength      = 2000
	MinRating                   = 1
	MaxRating                   = 5

	// MaxAdvanceBookingDays насколько вперед показываются свободные слоты
	MaxAdvanceBookingDays = 90

	// MaxAmountMinor upper bound for a single charge (999 999.99)
	MaxAmountMinor int64 = 99999999
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Cancellation reasons set by the system
const (
	ReasonPaymentTimeout = "payment_timeout"
	ReasonLatePayment    = "payment succeeded after booking left pending"
)
