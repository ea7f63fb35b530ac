package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/quote"
)

const (
	createQuoteSQL = `INSERT INTO quotes (id, cart, totals, warnings, tax_rate, final_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getQuoteByIDSQL = `SELECT id, cart, totals, warnings, tax_rate, created_at
		FROM quotes WHERE id = $1`
)

var _ quote.Repository = (*QuoteRepository)(nil)

// QuoteRepository implements quote.Repository backed by PostgreSQL. The cart
// snapshot and totals breakdown are stored as JSONB; tax rate and final
// total are duplicated into NUMERIC columns for reporting queries.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository returns a QuoteRepository that uses the given pool.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

// Create persists a new quote snapshot.
func (r *QuoteRepository) Create(ctx context.Context, q *quote.Quote) error {
	cartJSON, err := json.Marshal(q.Cart)
	if err != nil {
		return fmt.Errorf("marshaling quote cart: %w", err)
	}
	totalsJSON, err := json.Marshal(q.Totals)
	if err != nil {
		return fmt.Errorf("marshaling quote totals: %w", err)
	}

	_, err = r.pool.Exec(ctx, createQuoteSQL,
		q.ID, cartJSON, totalsJSON, q.Warnings, q.TaxRate, q.Totals.FinalTotal, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating quote %q: %w", q.ID, err)
	}

	return nil
}

// GetByID loads a stored quote snapshot.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*quote.Quote, error) {
	var (
		q          quote.Quote
		cartJSON   []byte
		totalsJSON []byte
	)
	err := r.pool.QueryRow(ctx, getQuoteByIDSQL, id).Scan(
		&q.ID, &cartJSON, &totalsJSON, &q.Warnings, &q.TaxRate, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quote.ErrNotFound
		}
		return nil, fmt.Errorf("getting quote %q: %w", id, err)
	}

	q.Cart = &cart.CartData{}
	if err := json.Unmarshal(cartJSON, q.Cart); err != nil {
		return nil, fmt.Errorf("unmarshaling quote cart %q: %w", id, err)
	}
	if err := json.Unmarshal(totalsJSON, &q.Totals); err != nil {
		return nil, fmt.Errorf("unmarshaling quote totals %q: %w", id, err)
	}

	return &q, nil
}
