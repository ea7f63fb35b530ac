package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculateLineDiscount(t *testing.T) {
	tests := []struct {
		name       string
		base       decimal.Decimal
		qty        decimal.Decimal
		discount   *Discount
		wantAmount decimal.Decimal
		wantFinal  decimal.Decimal
		wantValid  bool
		wantErr    string
	}{
		{
			name:       "no discount returns subtotal",
			base:       d("100"),
			qty:        d("2"),
			wantAmount: d("0"),
			wantFinal:  d("200.00"),
			wantValid:  true,
		},
		{
			name:       "percentage 10% of 200",
			base:       d("100"),
			qty:        d("2"),
			discount:   &Discount{Type: DiscountPercentage, Value: d("10")},
			wantAmount: d("20.00"),
			wantFinal:  d("180.00"),
			wantValid:  true,
		},
		{
			name:       "percentage 100% zeroes the line",
			base:       d("25"),
			qty:        d("4"),
			discount:   &Discount{Type: DiscountPercentage, Value: d("100")},
			wantAmount: d("100.00"),
			wantFinal:  d("0.00"),
			wantValid:  true,
		},
		{
			name:       "percentage over 100 rejected, not clamped",
			base:       d("100"),
			qty:        d("1"),
			discount:   &Discount{Type: DiscountPercentage, Value: d("150")},
			wantAmount: d("0"),
			wantFinal:  d("100.00"),
			wantValid:  false,
			wantErr:    errPercentageRange,
		},
		{
			name:       "percentage negative rejected",
			base:       d("100"),
			qty:        d("1"),
			discount:   &Discount{Type: DiscountPercentage, Value: d("-5")},
			wantAmount: d("0"),
			wantFinal:  d("100.00"),
			wantValid:  false,
			wantErr:    errPercentageRange,
		},
		{
			name:       "nominal basic",
			base:       d("50"),
			qty:        d("2"),
			discount:   &Discount{Type: DiscountNominal, Value: d("30")},
			wantAmount: d("30.00"),
			wantFinal:  d("70.00"),
			wantValid:  true,
		},
		{
			name:       "nominal over subtotal clamps to zero final",
			base:       d("10"),
			qty:        d("1"),
			discount:   &Discount{Type: DiscountNominal, Value: d("999999999")},
			wantAmount: d("10.00"),
			wantFinal:  d("0.00"),
			wantValid:  true,
		},
		{
			name:       "nominal negative rejected",
			base:       d("10"),
			qty:        d("1"),
			discount:   &Discount{Type: DiscountNominal, Value: d("-1")},
			wantAmount: d("0"),
			wantFinal:  d("10.00"),
			wantValid:  false,
			wantErr:    errNominalNegative,
		},
		{
			name:       "unknown discount type rejected",
			base:       d("10"),
			qty:        d("1"),
			discount:   &Discount{Type: "bogus", Value: d("5")},
			wantAmount: d("0"),
			wantFinal:  d("10.00"),
			wantValid:  false,
			wantErr:    errUnknownDiscount,
		},
		{
			name: "banker's rounding on midpoint discount",
			base: d("100"),
			qty:  d("1"),
			// 100 * 10.125% = 10.125 -> half-to-even -> 10.12
			discount:   &Discount{Type: DiscountPercentage, Value: d("10.125")},
			wantAmount: d("10.12"),
			wantFinal:  d("89.88"),
			wantValid:  true,
		},
		{
			name:       "grand total call site uses quantity 1",
			base:       d("180"),
			qty:        d("1"),
			discount:   &Discount{Type: DiscountNominal, Value: d("20")},
			wantAmount: d("20.00"),
			wantFinal:  d("160.00"),
			wantValid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculateLineDiscount(tt.base, tt.qty, tt.discount)

			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantErr, res.Err)
			assert.True(t, tt.wantAmount.Equal(res.DiscountAmount),
				"discount: want %s, got %s", tt.wantAmount, res.DiscountAmount)
			assert.True(t, tt.wantFinal.Equal(res.FinalAmount),
				"final: want %s, got %s", tt.wantFinal, res.FinalAmount)
		})
	}
}

func TestCalculateLineDiscount_NeverNegative(t *testing.T) {
	// Saturating subtraction: no input combination may produce a negative
	// final amount.
	values := []string{"0", "0.01", "9.99", "10", "10.01", "999999999"}
	for _, v := range values {
		res := CalculateLineDiscount(d("10"), d("1"), &Discount{Type: DiscountNominal, Value: d(v)})
		assert.False(t, res.FinalAmount.IsNegative(), "value %s produced negative final", v)
		assert.True(t, res.Valid)
	}
}
