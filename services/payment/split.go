package payment

import (
	"github.com/shopspring/decimal"

	"pilateshub/models"
)

// Split is the platform/instructor division of a gross amount in minor units.
type Split struct {
	AmountTotal      int64
	PlatformFee      int64
	InstructorAmount int64
	FeeRate          decimal.Decimal
}

// ComputeSplit takes the platform fee off a gross amount. The fee is rounded half-up
// to a whole cent and the instructor receives the remainder, so the two parts always
// add back to the gross amount exactly.
func ComputeSplit(amountInCents int64, feeRate decimal.Decimal) (Split, error) {
	if amountInCents < 0 {
		return Split{}, models.NewValidationError(models.CodeInvalidAmount, "amount %d must not be negative", amountInCents)
	}
	if err := ValidateFeeRate(feeRate); err != nil {
		return Split{}, err
	}

	// decimal.Round rounds half away from zero, which is half-up for non-negative amounts.
	fee := decimal.NewFromInt(amountInCents).Mul(feeRate).Round(0).IntPart()
	return Split{
		AmountTotal:      amountInCents,
		PlatformFee:      fee,
		InstructorAmount: amountInCents - fee,
		FeeRate:          feeRate,
	}, nil
}

// ValidateFeeRate checks that a rate is a fraction in [0, 1].
func ValidateFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return models.NewValidationError(models.CodeInvalidFeeRate, "fee rate %s is outside [0, 1]", rate.String())
	}
	return nil
}

// ParseFeeRate reads a configured rate such as "0.05".
func ParseFeeRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, models.NewValidationError(models.CodeInvalidFeeRate, "fee rate %q is not a decimal", s)
	}
	if err := ValidateFeeRate(rate); err != nil {
		return decimal.Decimal{}, err
	}
	return rate, nil
}
