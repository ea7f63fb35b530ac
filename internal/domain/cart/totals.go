package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/money"
)

// CartCalculation is the outcome of a comprehensive totals calculation. Even
// when Valid is false, Totals and Cart hold best-effort values; the caller
// decides whether to accept a partially-failed calculation or retry.
type CartCalculation struct {
	Totals CartTotals
	Cart   *CartData
	Valid  bool
	Errors []ValidationError
}

// CalculateComprehensiveCartTotals resolves a full cart in a single pass:
// per-item discounts, per-labor discounts, grand subtotal, the cart-level
// total discount, then tax. Line discounts are attached onto the items in
// place (Subtotal, Total, Discount.AppliedAmount); every intermediate sum is
// exposed on CartTotals so a client can render a line-by-line breakdown.
//
// Invalid total-level discounts and tax rates are recorded as field errors
// but do not abort the calculation; the pipeline continues with the
// calculators' safe fallback values. A panic anywhere is caught at this
// boundary and converted into float-only fallback totals, preserving the
// never-throw contract.
//
// The function is pure and idempotent for identical input; only the attached
// Metadata timestamps differ between runs, and they never affect Totals.
func CalculateComprehensiveCartTotals(data *CartData, taxRate decimal.Decimal) (calc CartCalculation) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			calc = fallbackCartTotals(data, taxRate)
		}
	}()

	if data == nil {
		return CartCalculation{
			Cart:  &CartData{},
			Valid: false,
			Errors: []ValidationError{
				{Field: "cartData", Message: "cart data is required"},
			},
		}
	}

	var errs []ValidationError

	// Per-item line discounts.
	itemsSubtotal := zero
	itemDiscounts := zero
	for i := range data.Items {
		it := &data.Items[i]
		qty := decimal.NewFromInt(int64(it.Quantity))

		res := CalculateLineDiscount(it.Price, qty, it.Discount)
		it.Subtotal = money.RoundCurrency(it.Price.Mul(qty))
		it.Total = res.FinalAmount
		if it.Discount != nil {
			it.Discount.AppliedAmount = res.DiscountAmount
		}
		if !res.Valid {
			errs = append(errs, itemError("items", i, res.Err))
		}

		itemsSubtotal = itemsSubtotal.Add(it.Price.Mul(qty))
		itemDiscounts = itemDiscounts.Add(res.DiscountAmount)
	}

	// Per-labor line discounts, same rule with Rate in place of Price.
	laborSubtotal := zero
	laborDiscounts := zero
	for i := range data.LaborItems {
		li := &data.LaborItems[i]

		res := CalculateLineDiscount(li.Rate, li.Quantity, li.Discount)
		li.Subtotal = money.RoundCurrency(li.Rate.Mul(li.Quantity))
		li.Total = res.FinalAmount
		if li.Discount != nil {
			li.Discount.AppliedAmount = res.DiscountAmount
		}
		if !res.Valid {
			errs = append(errs, itemError("laborItems", i, res.Err))
		}

		laborSubtotal = laborSubtotal.Add(li.Rate.Mul(li.Quantity))
		laborDiscounts = laborDiscounts.Add(res.DiscountAmount)
	}

	itemsAfterDiscounts := itemsSubtotal.Sub(itemDiscounts)
	laborAfterDiscounts := laborSubtotal.Sub(laborDiscounts)
	grandSubtotal := itemsAfterDiscounts.Add(laborAfterDiscounts)

	// Cart-level discount: same calculator, quantity=1. Invalid input is
	// non-fatal; the fallback amounts keep the pipeline moving.
	totalRes := CalculateLineDiscount(grandSubtotal, one, data.TotalDiscount)
	if !totalRes.Valid {
		errs = append(errs, ValidationError{Field: "totalDiscount", Message: totalRes.Err})
	}
	if data.TotalDiscount != nil {
		data.TotalDiscount.AppliedAmount = totalRes.DiscountAmount
	}

	taxRes := CalculateTax(grandSubtotal.Sub(totalRes.DiscountAmount), TaxConfig{Rate: taxRate})
	if !taxRes.Valid {
		errs = append(errs, ValidationError{Field: "tax", Message: taxRes.Err})
	}

	totals := CartTotals{
		Subtotal:       money.RoundCurrency(grandSubtotal),
		ItemsSubtotal:  money.RoundCurrency(itemsSubtotal),
		LaborSubtotal:  money.RoundCurrency(laborSubtotal),
		ItemDiscounts:  money.RoundCurrency(itemDiscounts),
		LaborDiscounts: money.RoundCurrency(laborDiscounts),
		TotalDiscount:  data.TotalDiscount,
		TaxRate:        taxRate,
		TaxAmount:      taxRes.TaxAmount,
		FinalTotal:     taxRes.AfterTaxAmount,
	}

	data.Totals = &totals
	data.Metadata = &CalcMetadata{
		CalculationTime: time.Since(started),
		CalculatedAt:    time.Now().UTC(),
	}

	return CartCalculation{
		Totals: totals,
		Cart:   data,
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func itemError(collection string, idx int, msg string) ValidationError {
	return ValidationError{
		Field:   indexedField(collection, idx, "discount"),
		Message: msg,
	}
}

// fallbackCartTotals is the last-resort, never-throw path: a single float64
// pass over the raw inputs with no discounts, so callers that cannot handle
// an error still receive plausible numbers.
func fallbackCartTotals(data *CartData, taxRate decimal.Decimal) CartCalculation {
	if data == nil {
		data = &CartData{}
	}

	var itemsSubtotal, laborSubtotal float64
	for _, it := range data.Items {
		itemsSubtotal += it.Price.InexactFloat64() * float64(it.Quantity)
	}
	for _, li := range data.LaborItems {
		laborSubtotal += li.Rate.InexactFloat64() * li.Quantity.InexactFloat64()
	}
	subtotal := itemsSubtotal + laborSubtotal

	rate := taxRate.InexactFloat64()
	if rate < 0 || rate > 1 {
		rate = 0
	}
	tax := subtotal * rate

	totals := CartTotals{
		Subtotal:      money.RoundCurrency(decimal.NewFromFloat(subtotal)),
		ItemsSubtotal: money.RoundCurrency(decimal.NewFromFloat(itemsSubtotal)),
		LaborSubtotal: money.RoundCurrency(decimal.NewFromFloat(laborSubtotal)),
		TaxRate:       taxRate,
		TaxAmount:     money.RoundCurrency(decimal.NewFromFloat(tax)),
		FinalTotal:    money.RoundCurrency(decimal.NewFromFloat(subtotal + tax)),
	}

	data.Totals = &totals
	return CartCalculation{
		Totals: totals,
		Cart:   data,
		Valid:  false,
		Errors: []ValidationError{
			{Field: "calculation", Message: "Comprehensive calculation failed"},
		},
	}
}
