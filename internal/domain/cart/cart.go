// Package cart implements the financial calculation engine: line and
// cart-level discount calculation, tax application, cart aggregation, and
// structural validation. Every operation is a pure computation over its
// arguments; nothing here touches storage or shares state between calls.
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the subtotal, value in [0,100].
	DiscountPercentage DiscountType = "percentage"
	// DiscountNominal subtracts an absolute currency amount, capped at the
	// subtotal it is applied against.
	DiscountNominal DiscountType = "nominal"
)

// RateType enumerates how a labor line's rate is interpreted.
type RateType string

const (
	RateHourly  RateType = "hourly"
	RateFixed   RateType = "fixed"
	RatePerUnit RateType = "per_unit"
)

// Discount describes a percentage or nominal discount. AppliedAmount is
// derived during calculation.
type Discount struct {
	Type          DiscountType    `json:"type"`
	Value         decimal.Decimal `json:"value"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
}

// CartItem is a product line in a cart. Subtotal and Total are derived by the
// aggregator: Subtotal = Price * Quantity, Total = Subtotal - applied discount.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Discount  *Discount       `json:"discount,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
}

// LaborItem is a labor line in a cart. Quantity is a decimal (hours or units
// may be fractional); the derivation rule matches CartItem with Rate in place
// of Price.
type LaborItem struct {
	Name     string          `json:"name"`
	RateType RateType        `json:"rateType"`
	Rate     decimal.Decimal `json:"rate"`
	Quantity decimal.Decimal `json:"quantity"`
	Discount *Discount       `json:"discount,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// CartTotals is the fully resolved summary of a calculation. It is recomputed
// whole on every call, never partially mutated.
type CartTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ItemsSubtotal  decimal.Decimal `json:"itemsSubtotal"`
	LaborSubtotal  decimal.Decimal `json:"laborSubtotal"`
	ItemDiscounts  decimal.Decimal `json:"itemDiscounts"`
	LaborDiscounts decimal.Decimal `json:"laborDiscounts"`
	TotalDiscount  *Discount       `json:"totalDiscount,omitempty"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// CalcMetadata carries calculation diagnostics. It never participates in
// totals and is excluded when comparing calculations for idempotence.
type CalcMetadata struct {
	CalculationTime time.Duration `json:"calculationTimeNs"`
	CalculatedAt    time.Time     `json:"calculatedAt"`
}

// CartData is the aggregate root a caller supplies per request. The engine
// enriches it with derived fields and hands it back; it is never stored here.
type CartData struct {
	Items         []CartItem    `json:"items"`
	LaborItems    []LaborItem   `json:"laborItems"`
	TotalDiscount *Discount     `json:"totalDiscount,omitempty"`
	Totals        *CartTotals   `json:"totals,omitempty"`
	Metadata      *CalcMetadata `json:"metadata,omitempty"`
}

// ValidationError reports a blocking problem with a cart field. Field is a
// dotted path such as "items[0].price".
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
