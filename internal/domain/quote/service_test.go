package quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvamitra/pos-quoting/internal/domain/cart"
	"github.com/alvamitra/pos-quoting/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockQuoteRepo struct {
	lastQuote *Quote
	stored    map[string]*Quote
	err       error
}

func (m *mockQuoteRepo) Create(_ context.Context, q *Quote) error {
	m.lastQuote = q
	return m.err
}

func (m *mockQuoteRepo) GetByID(_ context.Context, id string) (*Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	q, ok := m.stored[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func pricedCart() *cart.CartData {
	return &cart.CartData{
		Items: []cart.CartItem{
			{ProductID: "p1", Name: "Widget", Price: d("100.00"), Quantity: 2,
				Discount: &cart.Discount{Type: cart.DiscountPercentage, Value: d("10")}},
		},
	}
}

// --- Tests ---

func TestPlaceQuote_EmptyCart(t *testing.T) {
	svc := NewService(newProductRepo(), &mockQuoteRepo{})

	_, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{Cart: &cart.CartData{}})
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.PlaceQuote(context.Background(), PlaceQuoteRequest{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceQuote_Success(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewService(newProductRepo(), repo)

	q, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart:    pricedCart(),
		TaxRate: d("0.10"),
	})
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.NotEmpty(t, q.ID)
	assert.True(t, d("198.00").Equal(q.Totals.FinalTotal))
	assert.False(t, q.CreatedAt.IsZero())
	assert.Same(t, q, repo.lastQuote)
}

func TestPlaceQuote_ResolvesCatalogPrices(t *testing.T) {
	p := product.Product{ID: "p1", SKU: "SKU-1", Name: "Widget", Price: d("25.00")}
	repo := &mockQuoteRepo{}
	svc := NewService(newProductRepo(p), repo)

	q, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart: &cart.CartData{
			Items: []cart.CartItem{{ProductID: "p1", Quantity: 2}},
		},
		TaxRate: d("0"),
	})
	require.NoError(t, err)

	it := q.Cart.Items[0]
	assert.True(t, d("25.00").Equal(it.Price))
	assert.Equal(t, "Widget", it.Name)
	assert.True(t, d("50.00").Equal(q.Totals.FinalTotal))
}

func TestPlaceQuote_ExplicitPriceWins(t *testing.T) {
	p := product.Product{ID: "p1", Name: "Widget", Price: d("25.00")}
	svc := NewService(newProductRepo(p), &mockQuoteRepo{})

	q, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart: &cart.CartData{
			// Negotiated line price; the catalog must not override it.
			Items: []cart.CartItem{{ProductID: "p1", Name: "Widget", Price: d("20.00"), Quantity: 1}},
		},
		TaxRate: d("0"),
	})
	require.NoError(t, err)
	assert.True(t, d("20.00").Equal(q.Totals.FinalTotal))
}

func TestPlaceQuote_ProductNotFound(t *testing.T) {
	svc := NewService(newProductRepo(), &mockQuoteRepo{})

	_, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart: &cart.CartData{
			Items: []cart.CartItem{{ProductID: "missing", Quantity: 1}},
		},
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestPlaceQuote_InvalidCart(t *testing.T) {
	svc := NewService(newProductRepo(), &mockQuoteRepo{})

	_, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart: &cart.CartData{
			Items: []cart.CartItem{{ProductID: "p1", Name: "", Price: d("-5"), Quantity: 0}},
		},
	})

	var icErr *InvalidCartError
	require.ErrorAs(t, err, &icErr)
	assert.NotEmpty(t, icErr.Errors)
}

func TestPlaceQuote_CalculationErrorNotPersisted(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewService(newProductRepo(), repo)

	_, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart:    pricedCart(),
		TaxRate: d("1.5"),
	})

	var calcErr *CalculationError
	require.ErrorAs(t, err, &calcErr)
	assert.Nil(t, repo.lastQuote)
}

func TestPlaceQuote_WarningsCarriedThrough(t *testing.T) {
	svc := NewService(newProductRepo(), &mockQuoteRepo{})

	q, err := svc.PlaceQuote(context.Background(), PlaceQuoteRequest{
		Cart: &cart.CartData{
			Items: []cart.CartItem{
				{ProductID: "p1", Name: "Vault", Price: d("60000"), Quantity: 1},
			},
		},
		TaxRate: d("0"),
	})
	require.NoError(t, err)
	require.Len(t, q.Warnings, 1)
	assert.Contains(t, q.Warnings[0], "high price")
}

func TestGetQuote(t *testing.T) {
	stored := &Quote{ID: "q1"}
	repo := &mockQuoteRepo{stored: map[string]*Quote{"q1": stored}}
	svc := NewService(newProductRepo(), repo)

	q, err := svc.GetQuote(context.Background(), "q1")
	require.NoError(t, err)
	assert.Same(t, stored, q)

	_, err = svc.GetQuote(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
