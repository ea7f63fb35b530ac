package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/money"
)

const timeFormat = time.RFC3339

// maxBodySize caps request bodies at 1 MiB; carts are small.
const maxBodySize = 1 << 20

type cartRequest struct {
	CartData *cart.CartData  `json:"cartData"`
	TaxRate  decimal.Decimal `json:"taxRate"`
}

func decodeCartRequest(w http.ResponseWriter, r *http.Request) (*cartRequest, bool) {
	var req cartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	return &req, true
}

// CalculateCart runs the comprehensive totals calculation over the supplied
// cart. The response always carries best-effort totals and the enriched cart
// snapshot; the status code reflects validity (200 valid, 400 with errors).
func (h *Handler) CalculateCart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartRequest(w, r)
	if !ok {
		return
	}

	calc := cart.CalculateComprehensiveCartTotals(req.CartData, req.TaxRate)

	status := http.StatusOK
	if !calc.Valid {
		status = http.StatusBadRequest
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("isValid", func(e *jx.Encoder) { e.Bool(calc.Valid) })
			e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, &calc.Totals) })
			e.Field("cartData", func(e *jx.Encoder) { encodeCartData(e, calc.Cart) })
			e.Field("errors", func(e *jx.Encoder) { encodeValidationErrors(e, calc.Errors) })
		})
	})
}

// ValidateCart runs the pre-flight structural check without calculating
// anything. Warnings are informational and present even on a 200.
func (h *Handler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartRequest(w, r)
	if !ok {
		return
	}

	res := cart.ValidateCartData(req.CartData)

	status := http.StatusOK
	if !res.Valid {
		status = http.StatusBadRequest
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("isValid", func(e *jx.Encoder) { e.Bool(res.Valid) })
			e.Field("errors", func(e *jx.Encoder) { encodeValidationErrors(e, res.Errors) })
			e.Field("warnings", func(e *jx.Encoder) { encodeWarnings(e, res.Warnings) })
		})
	})
}

func (h *Handler) formatAmount(d decimal.Decimal) string {
	return money.Format(d, h.cfg.Locale, h.cfg.Currency)
}
