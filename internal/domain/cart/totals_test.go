package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart() *CartData {
	return &CartData{
		Items: []CartItem{
			{
				ProductID: "p1",
				Name:      "Widget",
				Price:     d("100.00"),
				Quantity:  2,
				Discount:  &Discount{Type: DiscountPercentage, Value: d("10")},
			},
		},
	}
}

func TestCalculateComprehensiveCartTotals_EndToEnd(t *testing.T) {
	calc := CalculateComprehensiveCartTotals(sampleCart(), d("0.10"))

	require.True(t, calc.Valid)
	require.Empty(t, calc.Errors)

	assert.True(t, d("200.00").Equal(calc.Totals.ItemsSubtotal))
	assert.True(t, d("20.00").Equal(calc.Totals.ItemDiscounts))
	assert.True(t, d("180.00").Equal(calc.Totals.Subtotal))
	assert.True(t, d("18.00").Equal(calc.Totals.TaxAmount))
	assert.True(t, d("198.00").Equal(calc.Totals.FinalTotal))

	// Derived fields are attached back onto the item.
	require.Len(t, calc.Cart.Items, 1)
	it := calc.Cart.Items[0]
	assert.True(t, d("200.00").Equal(it.Subtotal))
	assert.True(t, d("180.00").Equal(it.Total))
	require.NotNil(t, it.Discount)
	assert.True(t, d("20.00").Equal(it.Discount.AppliedAmount))

	require.NotNil(t, calc.Cart.Totals)
	require.NotNil(t, calc.Cart.Metadata)
	assert.False(t, calc.Cart.Metadata.CalculatedAt.IsZero())
}

func TestCalculateComprehensiveCartTotals_WithLaborAndTotalDiscount(t *testing.T) {
	data := &CartData{
		Items: []CartItem{
			{ProductID: "p1", Name: "Part", Price: d("50.00"), Quantity: 2},
		},
		LaborItems: []LaborItem{
			{
				Name:     "Install",
				RateType: RateHourly,
				Rate:     d("80.00"),
				Quantity: d("1.5"),
				Discount: &Discount{Type: DiscountNominal, Value: d("20")},
			},
		},
		TotalDiscount: &Discount{Type: DiscountPercentage, Value: d("5")},
	}

	calc := CalculateComprehensiveCartTotals(data, d("0.08"))
	require.True(t, calc.Valid)

	// items 100, labor 120 - 20 = 100, grand 200; 5% total discount -> 190;
	// tax 8% of 190 = 15.20; final 205.20.
	assert.True(t, d("100.00").Equal(calc.Totals.ItemsSubtotal))
	assert.True(t, d("120.00").Equal(calc.Totals.LaborSubtotal))
	assert.True(t, d("20.00").Equal(calc.Totals.LaborDiscounts))
	assert.True(t, d("200.00").Equal(calc.Totals.Subtotal))
	require.NotNil(t, calc.Totals.TotalDiscount)
	assert.True(t, d("10.00").Equal(calc.Totals.TotalDiscount.AppliedAmount))
	assert.True(t, d("15.20").Equal(calc.Totals.TaxAmount))
	assert.True(t, d("205.20").Equal(calc.Totals.FinalTotal))

	li := calc.Cart.LaborItems[0]
	assert.True(t, d("120.00").Equal(li.Subtotal))
	assert.True(t, d("100.00").Equal(li.Total))
}

func TestCalculateComprehensiveCartTotals_Idempotent(t *testing.T) {
	first := CalculateComprehensiveCartTotals(sampleCart(), d("0.10"))
	second := CalculateComprehensiveCartTotals(sampleCart(), d("0.10"))

	assert.True(t, first.Totals.FinalTotal.Equal(second.Totals.FinalTotal))
	assert.True(t, first.Totals.Subtotal.Equal(second.Totals.Subtotal))
	assert.True(t, first.Totals.TaxAmount.Equal(second.Totals.TaxAmount))
	assert.Equal(t, first.Valid, second.Valid)

	// Recalculating an already-enriched cart also yields identical totals.
	again := CalculateComprehensiveCartTotals(first.Cart, d("0.10"))
	assert.True(t, first.Totals.FinalTotal.Equal(again.Totals.FinalTotal))
}

func TestCalculateComprehensiveCartTotals_QuantityMonotonic(t *testing.T) {
	prev := decimal.Zero
	for qty := 1; qty <= 10; qty++ {
		data := &CartData{
			Items: []CartItem{
				{ProductID: "p1", Name: "Widget", Price: d("9.99"), Quantity: qty},
			},
		}
		calc := CalculateComprehensiveCartTotals(data, d("0.10"))
		require.True(t, calc.Valid)
		assert.True(t, calc.Totals.ItemsSubtotal.GreaterThanOrEqual(prev),
			"items subtotal decreased at qty %d", qty)
		prev = calc.Totals.ItemsSubtotal
	}
}

func TestCalculateComprehensiveCartTotals_FinalTotalNeverNegative(t *testing.T) {
	data := &CartData{
		Items: []CartItem{
			{ProductID: "p1", Name: "Widget", Price: d("10.00"), Quantity: 1},
		},
		TotalDiscount: &Discount{Type: DiscountNominal, Value: d("999999999")},
	}

	calc := CalculateComprehensiveCartTotals(data, d("0.10"))
	require.True(t, calc.Valid)
	assert.True(t, d("10.00").Equal(calc.Totals.TotalDiscount.AppliedAmount))
	assert.True(t, d("0.00").Equal(calc.Totals.FinalTotal))
	assert.False(t, calc.Totals.FinalTotal.IsNegative())
}

func TestCalculateComprehensiveCartTotals_InvalidTotalDiscountContinues(t *testing.T) {
	data := sampleCart()
	data.TotalDiscount = &Discount{Type: DiscountPercentage, Value: d("150")}

	calc := CalculateComprehensiveCartTotals(data, d("0.10"))

	require.False(t, calc.Valid)
	require.Len(t, calc.Errors, 1)
	assert.Equal(t, "totalDiscount", calc.Errors[0].Field)

	// Calculation proceeded with the calculator's fallback (no discount).
	assert.True(t, d("180.00").Equal(calc.Totals.Subtotal))
	assert.True(t, d("18.00").Equal(calc.Totals.TaxAmount))
	assert.True(t, d("198.00").Equal(calc.Totals.FinalTotal))
}

func TestCalculateComprehensiveCartTotals_InvalidTaxRateContinues(t *testing.T) {
	calc := CalculateComprehensiveCartTotals(sampleCart(), d("1.5"))

	require.False(t, calc.Valid)
	require.Len(t, calc.Errors, 1)
	assert.Equal(t, "tax", calc.Errors[0].Field)

	// Fallback: no tax added, totals still populated.
	assert.True(t, d("0").Equal(calc.Totals.TaxAmount))
	assert.True(t, d("180.00").Equal(calc.Totals.FinalTotal))
}

func TestCalculateComprehensiveCartTotals_InvalidItemDiscountAccumulates(t *testing.T) {
	data := &CartData{
		Items: []CartItem{
			{
				ProductID: "p1",
				Name:      "Widget",
				Price:     d("100.00"),
				Quantity:  1,
				Discount:  &Discount{Type: DiscountPercentage, Value: d("150")},
			},
		},
	}

	calc := CalculateComprehensiveCartTotals(data, d("0.10"))

	require.False(t, calc.Valid)
	require.Len(t, calc.Errors, 1)
	assert.Equal(t, "items[0].discount", calc.Errors[0].Field)

	// Best-effort values: the line falls back to its undiscounted subtotal.
	assert.True(t, d("100.00").Equal(calc.Cart.Items[0].Total))
	assert.True(t, d("110.00").Equal(calc.Totals.FinalTotal))
}

func TestCalculateComprehensiveCartTotals_NilCart(t *testing.T) {
	calc := CalculateComprehensiveCartTotals(nil, d("0.10"))

	require.False(t, calc.Valid)
	require.NotNil(t, calc.Cart)
	require.Len(t, calc.Errors, 1)
	assert.Equal(t, "cartData", calc.Errors[0].Field)
}

func TestCalculateComprehensiveCartTotals_EmptyCart(t *testing.T) {
	calc := CalculateComprehensiveCartTotals(&CartData{}, d("0.10"))

	require.True(t, calc.Valid)
	assert.True(t, calc.Totals.Subtotal.IsZero())
	assert.True(t, calc.Totals.FinalTotal.IsZero())
}
