package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/product"
	"github.com/alvamitra/pos-quoting/internal/domain/quote"
)

// writeJSON streams a jx-encoded body with the given status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the {code, message} error shape shared by all endpoints.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// Monetary fields leave the engine rounded to 2 decimal places, so the float
// conversion here is exact for the wire.
func encodeAmount(e *jx.Encoder, d decimal.Decimal) {
	e.Float64(d.InexactFloat64())
}

func encodeDiscount(e *jx.Encoder, d *cart.Discount) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("type", func(e *jx.Encoder) { e.Str(string(d.Type)) })
		e.Field("value", func(e *jx.Encoder) { encodeAmount(e, d.Value) })
		e.Field("appliedAmount", func(e *jx.Encoder) { encodeAmount(e, d.AppliedAmount) })
	})
}

func encodeCartItem(e *jx.Encoder, it *cart.CartItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Str(it.ProductID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeAmount(e, it.Price) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
		if it.Discount != nil {
			e.Field("discount", func(e *jx.Encoder) { encodeDiscount(e, it.Discount) })
		}
		e.Field("subtotal", func(e *jx.Encoder) { encodeAmount(e, it.Subtotal) })
		e.Field("total", func(e *jx.Encoder) { encodeAmount(e, it.Total) })
	})
}

func encodeLaborItem(e *jx.Encoder, li *cart.LaborItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(li.Name) })
		e.Field("rateType", func(e *jx.Encoder) { e.Str(string(li.RateType)) })
		e.Field("rate", func(e *jx.Encoder) { encodeAmount(e, li.Rate) })
		e.Field("quantity", func(e *jx.Encoder) { e.Float64(li.Quantity.InexactFloat64()) })
		if li.Discount != nil {
			e.Field("discount", func(e *jx.Encoder) { encodeDiscount(e, li.Discount) })
		}
		e.Field("subtotal", func(e *jx.Encoder) { encodeAmount(e, li.Subtotal) })
		e.Field("total", func(e *jx.Encoder) { encodeAmount(e, li.Total) })
	})
}

func encodeTotals(e *jx.Encoder, t *cart.CartTotals) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { encodeAmount(e, t.Subtotal) })
		e.Field("itemsSubtotal", func(e *jx.Encoder) { encodeAmount(e, t.ItemsSubtotal) })
		e.Field("laborSubtotal", func(e *jx.Encoder) { encodeAmount(e, t.LaborSubtotal) })
		e.Field("itemDiscounts", func(e *jx.Encoder) { encodeAmount(e, t.ItemDiscounts) })
		e.Field("laborDiscounts", func(e *jx.Encoder) { encodeAmount(e, t.LaborDiscounts) })
		if t.TotalDiscount != nil {
			e.Field("totalDiscount", func(e *jx.Encoder) { encodeDiscount(e, t.TotalDiscount) })
		}
		e.Field("taxRate", func(e *jx.Encoder) { e.Float64(t.TaxRate.InexactFloat64()) })
		e.Field("taxAmount", func(e *jx.Encoder) { encodeAmount(e, t.TaxAmount) })
		e.Field("finalTotal", func(e *jx.Encoder) { encodeAmount(e, t.FinalTotal) })
	})
}

func encodeCartData(e *jx.Encoder, data *cart.CartData) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range data.Items {
					encodeCartItem(e, &data.Items[i])
				}
			})
		})
		e.Field("laborItems", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range data.LaborItems {
					encodeLaborItem(e, &data.LaborItems[i])
				}
			})
		})
		if data.TotalDiscount != nil {
			e.Field("totalDiscount", func(e *jx.Encoder) { encodeDiscount(e, data.TotalDiscount) })
		}
		if data.Totals != nil {
			e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, data.Totals) })
		}
	})
}

func encodeValidationErrors(e *jx.Encoder, errs []cart.ValidationError) {
	e.Arr(func(e *jx.Encoder) {
		for _, ve := range errs {
			e.Obj(func(e *jx.Encoder) {
				e.Field("field", func(e *jx.Encoder) { e.Str(ve.Field) })
				e.Field("message", func(e *jx.Encoder) { e.Str(ve.Message) })
			})
		}
	})
}

func encodeWarnings(e *jx.Encoder, warnings []string) {
	e.Arr(func(e *jx.Encoder) {
		for _, w := range warnings {
			e.Str(w)
		}
	})
}

func (h *Handler) encodeQuote(e *jx.Encoder, q *quote.Quote) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(q.ID) })
		e.Field("taxRate", func(e *jx.Encoder) { e.Float64(q.TaxRate.InexactFloat64()) })
		e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, &q.Totals) })
		e.Field("cartData", func(e *jx.Encoder) { encodeCartData(e, q.Cart) })
		e.Field("warnings", func(e *jx.Encoder) { encodeWarnings(e, q.Warnings) })
		e.Field("formattedTotal", func(e *jx.Encoder) {
			e.Str(h.formatAmount(q.Totals.FinalTotal))
		})
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(q.CreatedAt.Format(timeFormat)) })
	})
}

func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("sku", func(e *jx.Encoder) { e.Str(p.SKU) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeAmount(e, p.Price) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
	})
}
