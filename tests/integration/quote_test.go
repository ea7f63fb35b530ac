//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// Response types are defined locally to keep tests black-box over the wire
// format.

type productResponse struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type totalsResponse struct {
	Subtotal      float64 `json:"subtotal"`
	ItemsSubtotal float64 `json:"itemsSubtotal"`
	LaborSubtotal float64 `json:"laborSubtotal"`
	ItemDiscounts float64 `json:"itemDiscounts"`
	TotalDiscount float64 `json:"totalDiscount"`
	TaxAmount     float64 `json:"taxAmount"`
	FinalTotal    float64 `json:"finalTotal"`
}

type calculateResponse struct {
	IsValid bool           `json:"isValid"`
	Totals  totalsResponse `json:"totals"`
	Errors  []fieldError   `json:"errors"`
}

type validateResponse struct {
	IsValid  bool         `json:"isValid"`
	Errors   []fieldError `json:"errors"`
	Warnings []string     `json:"warnings"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type quoteResponse struct {
	ID             string         `json:"id"`
	Totals         totalsResponse `json:"totals"`
	FormattedTotal string         `json:"formattedTotal"`
	Warnings       []string       `json:"warnings"`
	CreatedAt      string         `json:"createdAt"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func cartBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"cartData": map[string]any{"items": items},
		"taxRate":  0.10,
	}
}

func TestProductCatalog(t *testing.T) {
	resp := doGet(t, "/api/products", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3", len(products))
	}

	resp = doGet(t, "/api/products/1", "")
	p := decodeJSON[productResponse](t, resp)
	if p.SKU != "ITG-OIL-5W30" {
		t.Errorf("sku = %q, want ITG-OIL-5W30", p.SKU)
	}

	resp = doGet(t, "/api/products/does-not-exist", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCalculateCart(t *testing.T) {
	body := cartBody(map[string]any{
		"productId": "3",
		"name":      "Front Brake Pad Set",
		"price":     64.00,
		"quantity":  2,
		"discount":  map[string]any{"type": "percentage", "value": 10},
	})

	resp := doPost(t, "/api/cart/calculate", body, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	calc := decodeJSON[calculateResponse](t, resp)
	if !calc.IsValid {
		t.Fatalf("isValid = false, errors: %v", calc.Errors)
	}
	// 128.00 - 12.80 = 115.20, +10% tax = 126.72
	if calc.Totals.FinalTotal != 126.72 {
		t.Errorf("finalTotal = %v, want 126.72", calc.Totals.FinalTotal)
	}
}

func TestValidateCart(t *testing.T) {
	body := cartBody(map[string]any{
		"productId": "1",
		"name":      "",
		"price":     -1,
		"quantity":  0,
	})

	resp := doPost(t, "/api/cart/validate", body, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	res := decodeJSON[validateResponse](t, resp)
	if res.IsValid {
		t.Error("isValid = true, want false")
	}
	if len(res.Errors) < 3 {
		t.Errorf("got %d errors, want at least 3", len(res.Errors))
	}
}

func TestQuoteLifecycle(t *testing.T) {
	// Price omitted: the service must resolve it from the catalog.
	body := cartBody(map[string]any{
		"productId": "2",
		"quantity":  2,
	})

	resp := doPost(t, "/api/quotes", body, testAPIKey)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	placed := decodeJSON[quoteResponse](t, resp)
	if placed.ID == "" {
		t.Fatal("quote ID is empty")
	}
	// 2 x 9.50 = 19.00, +10% tax = 20.90
	if placed.Totals.FinalTotal != 20.90 {
		t.Errorf("finalTotal = %v, want 20.90", placed.Totals.FinalTotal)
	}
	if placed.FormattedTotal != "$20.90" {
		t.Errorf("formattedTotal = %q, want $20.90", placed.FormattedTotal)
	}

	resp = doGet(t, "/api/quotes/"+placed.ID, testAPIKey)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get quote status = %d, want 200", resp.StatusCode)
	}

	fetched := decodeJSON[quoteResponse](t, resp)
	if fetched.ID != placed.ID {
		t.Errorf("fetched ID = %q, want %q", fetched.ID, placed.ID)
	}
	if fetched.Totals.FinalTotal != placed.Totals.FinalTotal {
		t.Errorf("fetched finalTotal = %v, want %v", fetched.Totals.FinalTotal, placed.Totals.FinalTotal)
	}
}

func TestQuoteAuth(t *testing.T) {
	body := cartBody(map[string]any{"productId": "2", "quantity": 1})

	resp := doPost(t, "/api/quotes", body, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/api/quotes", body, "wrong-key")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestQuoteUnknownProduct(t *testing.T) {
	body := cartBody(map[string]any{"productId": "missing", "quantity": 1})

	resp := doPost(t, "/api/quotes", body, testAPIKey)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	e := decodeJSON[errorResponse](t, resp)
	if e.Message == "" {
		t.Error("error message is empty")
	}
}
