package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/quote"
)

// PlaceQuote validates, prices, calculates, and persists a quote from the
// submitted cart, returning the stored snapshot.
func (h *Handler) PlaceQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCartRequest(w, r)
	if !ok {
		return
	}

	q, err := h.quoteService.PlaceQuote(r.Context(), quote.PlaceQuoteRequest{
		Cart:    req.CartData,
		TaxRate: req.TaxRate,
	})
	if err != nil {
		h.writeQuoteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeQuote(e, q)
	})
}

// GetQuote loads a stored quote snapshot by ID.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q, err := h.quoteService.GetQuote(r.Context(), id)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			writeError(w, http.StatusNotFound, "quote not found")
			return
		}
		zctx.From(r.Context()).Error("get quote", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeQuote(e, q)
	})
}

// writeQuoteError converts quote service errors to HTTP responses. Validation
// and calculation failures include the full error list so a client can render
// field-level feedback.
func (h *Handler) writeQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, quote.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var icErr *quote.InvalidCartError
	if errors.As(err, &icErr) {
		writeValidationFailure(w, http.StatusBadRequest, "cart validation failed", icErr.Errors, icErr.Warnings)
		return
	}

	var calcErr *quote.CalculationError
	if errors.As(err, &calcErr) {
		writeValidationFailure(w, http.StatusBadRequest, "cart calculation failed", calcErr.Errors, nil)
		return
	}

	var pnfErr *quote.ProductNotFoundError
	if errors.As(err, &pnfErr) {
		writeError(w, http.StatusUnprocessableEntity, pnfErr.Error())
		return
	}

	zctx.From(r.Context()).Error("place quote", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeValidationFailure(w http.ResponseWriter, status int, message string, errs []cart.ValidationError, warnings []string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
			e.Field("errors", func(e *jx.Encoder) { encodeValidationErrors(e, errs) })
			if len(warnings) > 0 {
				e.Field("warnings", func(e *jx.Encoder) { encodeWarnings(e, warnings) })
			}
		})
	})
}
