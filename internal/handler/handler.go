// Package handler exposes the calculation engine and quoting service over
// HTTP. Handlers decode JSON request bodies, delegate to the domain, and map
// results (or typed errors) onto response shapes; validation failures travel
// as 400 payloads with the error list, never as panics.
package handler

import (
	"net/http"

	"github.com/alvamitra/pos-quoting/internal/domain/product"
	"github.com/alvamitra/pos-quoting/internal/domain/quote"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// Locale and Currency drive display formatting of quote totals.
	Locale   string
	Currency string
}

// Handler implements the HTTP API, delegating business logic to the quote
// service and product repository.
type Handler struct {
	cfg          Config
	products     product.Repository
	quoteService *quote.Service
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, products product.Repository, quoteService *quote.Service) *Handler {
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Handler{
		cfg:          cfg,
		products:     products,
		quoteService: quoteService,
	}
}

// Routes registers all API routes on mux. Quote endpoints additionally pass
// through the given auth middleware.
func (h *Handler) Routes(mux *http.ServeMux, authn func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/cart/calculate", h.CalculateCart)
	mux.HandleFunc("POST /api/cart/validate", h.ValidateCart)

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.Handle("POST /api/quotes", authn(http.HandlerFunc(h.PlaceQuote)))
	mux.Handle("GET /api/quotes/{id}", authn(http.HandlerFunc(h.GetQuote)))
}
