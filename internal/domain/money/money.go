// Package money defines the decimal arithmetic conventions shared by every
// monetary calculation in the service.
//
// All amounts are held as shopspring decimals from the moment they enter the
// system until the final terminal rounding; binary floating point cannot
// represent most decimal fractions exactly (0.1 + 0.2 != 0.3), which is
// unacceptable for currency. Terminal rounding is banker's rounding
// (round-half-to-even) to avoid the systematic upward bias half-up rounding
// accumulates over many transactions.
package money

import (
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places amounts are rounded to
// before leaving the engine.
const CurrencyPlaces = 2

func init() {
	// 20 significant digits for non-terminating division results. Applied
	// once at load; never mutated afterwards, so it is safe under concurrent
	// callers.
	decimal.DivisionPrecision = 20
}

// RoundingMethod selects how a computed amount is rounded to currency
// precision.
type RoundingMethod string

const (
	// RoundingBank rounds half-to-even. This is the default.
	RoundingBank RoundingMethod = "round"
	// RoundingFloor rounds down.
	RoundingFloor RoundingMethod = "floor"
	// RoundingCeil rounds up.
	RoundingCeil RoundingMethod = "ceil"
)

// Round rounds d to currency precision using the given method. Unknown or
// empty methods fall back to banker's rounding.
func Round(d decimal.Decimal, method RoundingMethod) decimal.Decimal {
	switch method {
	case RoundingFloor:
		return d.RoundFloor(CurrencyPlaces)
	case RoundingCeil:
		return d.RoundCeil(CurrencyPlaces)
	default:
		return d.RoundBank(CurrencyPlaces)
	}
}

// RoundCurrency rounds d to currency precision with banker's rounding. It is
// the terminal rounding step on every calculation path.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(CurrencyPlaces)
}
