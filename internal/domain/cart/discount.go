package cart

import (
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/money"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	zero    = decimal.Zero
)

// Error strings surfaced through result objects. Calculation failures are
// data, never panics (see LineDiscountResult.Err).
const (
	errCalculation     = "Calculation error occurred"
	errPercentageRange = "percentage discount must be between 0 and 100"
	errNominalNegative = "nominal discount must not be negative"
	errUnknownDiscount = "unsupported discount type"
)

// LineDiscountResult holds the outcome of a line discount calculation. When
// Valid is false the amounts are still usable best-effort values; the caller
// decides whether to accept them.
type LineDiscountResult struct {
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	Valid          bool
	Err            string
}

// CalculateLineDiscount computes the discount and resulting amount for a
// baseAmount x quantity pair. It is invoked identically for cart items
// (baseAmount=price), labor items (baseAmount=rate), and once per cart at the
// grand-subtotal level (quantity=1).
//
// Rules:
//   - nil discount: zero discount, final = subtotal.
//   - percentage: value outside [0,100] is rejected (Valid=false, amounts
//     fall back to the undiscounted subtotal).
//   - nominal: negative value is rejected; value above the subtotal is
//     clamped so the final amount saturates at zero. Clamping is a business
//     rule, not a validation failure.
//
// Both returned amounts carry terminal 2dp banker's rounding. The function
// never panics: any panic during arithmetic is converted into a float64
// fallback result with Err set.
func CalculateLineDiscount(baseAmount, quantity decimal.Decimal, d *Discount) (res LineDiscountResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fallbackLineDiscount(baseAmount, quantity)
		}
	}()

	subtotal := baseAmount.Mul(quantity)

	if d == nil {
		return LineDiscountResult{
			DiscountAmount: zero,
			FinalAmount:    money.RoundCurrency(subtotal),
			Valid:          true,
		}
	}

	var amount decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return rejectLineDiscount(subtotal, errPercentageRange)
		}
		amount = subtotal.Mul(d.Value).Div(hundred)

	case DiscountNominal:
		if d.Value.IsNegative() {
			return rejectLineDiscount(subtotal, errNominalNegative)
		}
		// Saturating subtraction: an oversized nominal discount consumes the
		// whole subtotal and the final amount bottoms out at zero.
		amount = decimal.Min(d.Value, subtotal)

	default:
		return rejectLineDiscount(subtotal, errUnknownDiscount)
	}

	final := subtotal.Sub(amount)
	if final.IsNegative() {
		final = zero
	}

	return LineDiscountResult{
		DiscountAmount: money.RoundCurrency(amount),
		FinalAmount:    money.RoundCurrency(final),
		Valid:          true,
	}
}

// rejectLineDiscount builds the invalid-result shape: no discount applied,
// final amount equal to the undiscounted subtotal.
func rejectLineDiscount(subtotal decimal.Decimal, msg string) LineDiscountResult {
	return LineDiscountResult{
		DiscountAmount: zero,
		FinalAmount:    money.RoundCurrency(subtotal),
		Valid:          false,
		Err:            msg,
	}
}

// fallbackLineDiscount recomputes the subtotal with plain float64 math so the
// caller still receives a usable number after an arithmetic panic. Precision
// is traded for availability here.
func fallbackLineDiscount(baseAmount, quantity decimal.Decimal) LineDiscountResult {
	sub := baseAmount.InexactFloat64() * quantity.InexactFloat64()
	return LineDiscountResult{
		DiscountAmount: zero,
		FinalAmount:    money.RoundCurrency(decimal.NewFromFloat(sub)),
		Valid:          false,
		Err:            errCalculation,
	}
}
