package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Thresholds for suspicious-but-legal input. Crossing one produces a warning,
// never an error: high prices and huge nominal discounts are plausible in
// B2B quoting and must not block a transaction.
var (
	minItemPrice         = decimal.RequireFromString("0.01")
	highPriceThreshold   = decimal.NewFromInt(50_000)
	highRateThreshold    = decimal.NewFromInt(1_000)
	highNominalThreshold = decimal.NewFromInt(1_000_000)
)

const highQuantityThreshold = 1000

// ValidationResult holds the outcome of a pre-flight cart check. Errors block
// (Valid=false); warnings are informational and never affect Valid.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// ValidateCartData checks structural and numeric constraints on a cart,
// independently of calculation. A nil cart short-circuits with a single
// top-level error; past that, every rule runs and errors accumulate so the
// caller receives the complete set in one pass.
func ValidateCartData(data *CartData) ValidationResult {
	if data == nil {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{Field: "cartData", Message: "cart data is required"},
			},
		}
	}

	var (
		errs  []ValidationError
		warns []string
	)

	for i := range data.Items {
		validateItem(indexedField("items", i, ""), &data.Items[i], &errs, &warns)
	}
	for i := range data.LaborItems {
		validateLaborItem(indexedField("laborItems", i, ""), &data.LaborItems[i], &errs, &warns)
	}
	if data.TotalDiscount != nil {
		validateDiscount("totalDiscount", data.TotalDiscount, &errs, &warns)
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

func validateItem(field string, it *CartItem, errs *[]ValidationError, warns *[]string) {
	if strings.TrimSpace(it.ProductID) == "" {
		*errs = append(*errs, ValidationError{Field: field + ".productId", Message: "product id is required"})
	}
	if strings.TrimSpace(it.Name) == "" {
		*errs = append(*errs, ValidationError{Field: field + ".name", Message: "name is required"})
	}
	if it.Price.LessThan(minItemPrice) {
		*errs = append(*errs, ValidationError{Field: field + ".price", Message: "price must be at least 0.01"})
	}
	if it.Quantity <= 0 {
		*errs = append(*errs, ValidationError{Field: field + ".quantity", Message: "quantity must be a positive integer"})
	}

	if it.Price.GreaterThan(highPriceThreshold) {
		*warns = append(*warns, fmt.Sprintf("%s: unusually high price %s", field, it.Price))
	}
	if it.Quantity > highQuantityThreshold {
		*warns = append(*warns, fmt.Sprintf("%s: unusually high quantity %d", field, it.Quantity))
	}

	if it.Discount != nil {
		validateDiscount(field+".discount", it.Discount, errs, warns)
	}
}

func validateLaborItem(field string, li *LaborItem, errs *[]ValidationError, warns *[]string) {
	if strings.TrimSpace(li.Name) == "" {
		*errs = append(*errs, ValidationError{Field: field + ".name", Message: "name is required"})
	}
	switch li.RateType {
	case RateHourly, RateFixed, RatePerUnit:
	default:
		*errs = append(*errs, ValidationError{
			Field:   field + ".rateType",
			Message: "rate type must be one of hourly, fixed, per_unit",
		})
	}
	if li.Rate.IsNegative() {
		*errs = append(*errs, ValidationError{Field: field + ".rate", Message: "rate must not be negative"})
	}
	// Labor quantities may be fractional (hours), so only positivity is
	// required.
	if !li.Quantity.IsPositive() {
		*errs = append(*errs, ValidationError{Field: field + ".quantity", Message: "quantity must be greater than 0"})
	}

	if li.Rate.GreaterThan(highRateThreshold) {
		*warns = append(*warns, fmt.Sprintf("%s: unusually high rate %s", field, li.Rate))
	}

	if li.Discount != nil {
		validateDiscount(field+".discount", li.Discount, errs, warns)
	}
}

// validateDiscount applies the shared discount rules. Note the deliberate
// asymmetry: a percentage above 100 is a hard error, while a nominal discount
// above the warning threshold stays legal.
func validateDiscount(field string, d *Discount, errs *[]ValidationError, warns *[]string) {
	switch d.Type {
	case DiscountPercentage, DiscountNominal:
	default:
		*errs = append(*errs, ValidationError{
			Field:   field + ".type",
			Message: "discount type must be percentage or nominal",
		})
		return
	}

	if d.Value.IsNegative() {
		*errs = append(*errs, ValidationError{Field: field + ".value", Message: "discount value must not be negative"})
		return
	}

	if d.Type == DiscountPercentage && d.Value.GreaterThan(hundred) {
		*errs = append(*errs, ValidationError{Field: field + ".value", Message: "percentage discount cannot exceed 100"})
	}
	if d.Type == DiscountNominal && d.Value.GreaterThan(highNominalThreshold) {
		*warns = append(*warns, fmt.Sprintf("%s: unusually large nominal discount %s", field, d.Value))
	}
}

func indexedField(collection string, idx int, child string) string {
	if child == "" {
		return fmt.Sprintf("%s[%d]", collection, idx)
	}
	return fmt.Sprintf("%s[%d].%s", collection, idx, child)
}
