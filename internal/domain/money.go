package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ToMinorUnits converts a decimal price to integer minor units (cents): round(price * 100)
func ToMinorUnits(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: negative price %s", ErrInvalidAmount, price.String())
	}
	minor := price.Mul(hundred).Round(0)
	if minor.GreaterThan(decimal.NewFromInt(MaxAmountMinor)) {
		return 0, fmt.Errorf("%w: price %s out of range", ErrInvalidAmount, price.String())
	}
	return minor.IntPart(), nil
}

// ValidateFeeRate checks that the platform fee rate lies in [0, 1)
func ValidateFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: %s", ErrInvalidFeeRate, rate.String())
	}
	return nil
}

// Split is the three-way division of a charge. ProcessingFee is reported by the provider later.
type Split struct {
	Total              int64
	PlatformFee        int64
	PractitionerAmount int64
}

// ComputeSplit divides total (minor units) into platform fee and practitioner payout.
// platform_fee = round(total * rate), practitioner_amount = total - platform_fee.
func ComputeSplit(total int64, feeRate decimal.Decimal) (Split, error) {
	if total <= 0 {
		return Split{}, fmt.Errorf("%w: total %d", ErrInvalidAmount, total)
	}
	if err := ValidateFeeRate(feeRate); err != nil {
		return Split{}, err
	}

	fee := decimal.NewFromInt(total).Mul(feeRate).Round(0).IntPart()

	split := Split{
		Total:              total,
		PlatformFee:        fee,
		PractitionerAmount: total - fee,
	}
	return split, split.Validate()
}

// Validate checks the conservation invariant
func (s Split) Validate() error {
	if s.PlatformFee < 0 || s.PractitionerAmount < 0 || s.PlatformFee+s.PractitionerAmount != s.Total {
		return fmt.Errorf("%w: total=%d fee=%d practitioner=%d",
			ErrSplitNotConserved, s.Total, s.PlatformFee, s.PractitionerAmount)
	}
	return nil
}

// SplitRefund divides a refund proportionally to the original split, measured on the running total
// of refunds so that partial refunds never drift: with prior already refunded,
// platform part = round((prior+refund) * platform_fee / total) - round(prior * platform_fee / total),
// practitioner part = refund - platform part. Once the whole charge is refunded the platform parts
// sum to platform_fee exactly.
func SplitRefund(prior, refund int64, original Split) (platformPart int64, practitionerPart int64) {
	if original.Total <= 0 || refund <= 0 {
		return 0, refund
	}
	if prior < 0 {
		prior = 0
	}
	platformPart = platformShare(prior+refund, original) - platformShare(prior, original)
	return platformPart, refund - platformPart
}

func platformShare(refunded int64, original Split) int64 {
	return decimal.NewFromInt(refunded).
		Mul(decimal.NewFromInt(original.PlatformFee)).
		Div(decimal.NewFromInt(original.Total)).
		Round(0).
		IntPart()
}
