package quote

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/product"
)

// Service encapsulates quote placement business logic.
type Service struct {
	products product.Repository
	quotes   Repository
}

// NewService creates a quote Service with the required domain dependencies.
func NewService(products product.Repository, quotes Repository) *Service {
	return &Service{
		products: products,
		quotes:   quotes,
	}
}

// PlaceQuoteRequest holds the input for placing a quote.
type PlaceQuoteRequest struct {
	Cart    *cart.CartData
	TaxRate decimal.Decimal
}

// PlaceQuote validates the cart, resolves catalog prices for items sent
// without one, calculates comprehensive totals, and persists the snapshot.
//
// Items may carry an explicit price (quoting allows negotiated line prices);
// items with a zero price are priced from the catalog in a single batch
// fetch, and an unknown product ID fails the whole quote.
func (s *Service) PlaceQuote(ctx context.Context, req PlaceQuoteRequest) (*Quote, error) {
	data := req.Cart
	if data == nil || (len(data.Items) == 0 && len(data.LaborItems) == 0) {
		return nil, ErrEmptyCart
	}

	if err := s.resolvePrices(ctx, data); err != nil {
		return nil, err
	}

	validation := cart.ValidateCartData(data)
	if !validation.Valid {
		return nil, &InvalidCartError{
			Errors:   validation.Errors,
			Warnings: validation.Warnings,
		}
	}

	calc := cart.CalculateComprehensiveCartTotals(data, req.TaxRate)
	if !calc.Valid {
		return nil, &CalculationError{Errors: calc.Errors}
	}

	q := &Quote{
		ID:        uuid.New().String(),
		Cart:      calc.Cart,
		Totals:    calc.Totals,
		TaxRate:   req.TaxRate,
		Warnings:  validation.Warnings,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, errors.Wrap(err, "create quote")
	}

	return q, nil
}

// GetQuote loads a previously stored quote snapshot.
func (s *Service) GetQuote(ctx context.Context, id string) (*Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get quote")
	}
	return q, nil
}

// resolvePrices fills in catalog prices (and names, when blank) for items
// that were sent without a price. All lookups happen in one batch query.
func (s *Service) resolvePrices(ctx context.Context, data *cart.CartData) error {
	var ids []string
	for i := range data.Items {
		if data.Items[i].Price.IsZero() && data.Items[i].ProductID != "" {
			ids = append(ids, data.Items[i].ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "get products")
	}

	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	for i := range data.Items {
		it := &data.Items[i]
		if !it.Price.IsZero() || it.ProductID == "" {
			continue
		}
		p, ok := byID[it.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: it.ProductID}
		}
		it.Price = p.Price
		if it.Name == "" {
			it.Name = p.Name
		}
	}

	return nil
}
