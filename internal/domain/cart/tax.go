package cart

import (
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/money"
)

const errTaxRateRange = "tax rate must be between 0 and 1"

// TaxConfig controls a single tax application. Rate is a fraction in [0,1],
// not a percentage. When Inclusive is true the amount already contains the
// tax and nothing is added.
type TaxConfig struct {
	Rate      decimal.Decimal
	Inclusive bool
	Rounding  money.RoundingMethod
}

// TaxResult holds the outcome of a tax calculation. As with discounts, an
// invalid result still carries usable amounts.
type TaxResult struct {
	TaxAmount      decimal.Decimal
	AfterTaxAmount decimal.Decimal
	Valid          bool
	Err            string
}

// CalculateTax applies cfg.Rate to amount. The tax amount is rounded with the
// configured method (floor, ceil, or banker's by default); the after-tax
// amount is always re-rounded to currency precision. Rates outside [0,1] are
// rejected with TaxAmount=0 and AfterTaxAmount=amount. Never panics.
func CalculateTax(amount decimal.Decimal, cfg TaxConfig) (res TaxResult) {
	defer func() {
		if r := recover(); r != nil {
			res = TaxResult{
				TaxAmount:      zero,
				AfterTaxAmount: money.RoundCurrency(decimal.NewFromFloat(amount.InexactFloat64())),
				Valid:          false,
				Err:            errCalculation,
			}
		}
	}()

	if cfg.Rate.IsNegative() || cfg.Rate.GreaterThan(one) {
		return TaxResult{
			TaxAmount:      zero,
			AfterTaxAmount: money.RoundCurrency(amount),
			Valid:          false,
			Err:            errTaxRateRange,
		}
	}

	tax := money.Round(amount.Mul(cfg.Rate), cfg.Rounding)

	after := amount
	if !cfg.Inclusive {
		after = amount.Add(tax)
	}

	return TaxResult{
		TaxAmount:      tax,
		AfterTaxAmount: money.RoundCurrency(after),
		Valid:          true,
	}
}
