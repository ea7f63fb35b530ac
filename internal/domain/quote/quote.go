// Package quote implements quote placement: pre-flight validation, catalog
// price resolution, comprehensive totals calculation, and persistence of the
// resulting snapshot.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
)

// ErrNotFound is returned when a requested quote does not exist.
var ErrNotFound = errors.New("quote not found")

// ErrEmptyCart is returned when a quote request carries no item or labor lines.
var ErrEmptyCart = errors.New("cart must contain at least one item or labor line")

// InvalidCartError indicates the cart failed pre-flight validation.
type InvalidCartError struct {
	Errors   []cart.ValidationError
	Warnings []string
}

func (e *InvalidCartError) Error() string {
	return fmt.Sprintf("cart validation failed with %d error(s)", len(e.Errors))
}

// CalculationError indicates totals calculation produced blocking errors.
type CalculationError struct {
	Errors []cart.ValidationError
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("cart calculation failed with %d error(s)", len(e.Errors))
}

// ProductNotFoundError indicates a cart line references an unknown product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Quote is a persisted snapshot of a fully calculated cart.
type Quote struct {
	ID        string
	Cart      *cart.CartData
	Totals    cart.CartTotals
	TaxRate   decimal.Decimal
	Warnings  []string
	CreatedAt time.Time
}

// Repository defines persistence operations for quotes.
type Repository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, id string) (*Quote, error)
}
