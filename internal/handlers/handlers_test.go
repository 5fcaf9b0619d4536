package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/gateway"
	"storefront/internal/models"
	"storefront/internal/routes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct {
	records []gateway.ProductRecord
	err     error
}

func (s *stubGateway) ListProducts(ctx context.Context, limit int) ([]gateway.ProductRecord, error) {
	return s.records, s.err
}

func (s *stubGateway) SearchProducts(ctx context.Context, term string) ([]gateway.ProductRecord, error) {
	return s.records, s.err
}

func (s *stubGateway) GetProduct(ctx context.Context, id int64) (*gateway.ProductRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.records {
		if r.ID == id {
			record := r
			return &record, nil
		}
	}
	return nil, gateway.ErrNotFound
}

func (s *stubGateway) ListCategories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{Slug: "beauty", DisplayName: "Beauty"}}, s.err
}

func newTestRouter(gw *stubGateway) (*gin.Engine, *cart.Ledger) {
	logger := zap.NewNop()
	engine := catalog.NewEngine(gw, logger)
	categories := catalog.NewCategoryCache(gw)
	ledger := cart.NewLedger()

	router := gin.New()
	routes.RegisterRoutes(router, engine, categories, ledger, logger)
	return router, ledger
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedRecords(n int) []gateway.ProductRecord {
	records := make([]gateway.ProductRecord, 0, n)
	for i := int64(1); i <= int64(n); i++ {
		records = append(records, gateway.ProductRecord{
			ID:       i,
			Title:    "Product",
			Category: "beauty",
			Price:    99.9, // 9.99 once normalized
			Rating:   4.2,
			Stock:    5,
		})
	}
	return records
}

func TestListProductsReturnsPageMetadata(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{records: seedRecords(45)})

	w := doJSON(t, router, http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(45), body["total"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Len(t, body["data"], 20)
}

func TestListProductsGatewayFailure(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{err: assert.AnError})

	w := doJSON(t, router, http.MethodGet, "/v1/products", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "fetch products")
}

func TestSetPageRejectsOutOfRange(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{records: seedRecords(45)})

	// Seed pagination metadata: 45 products -> 3 pages.
	w := doJSON(t, router, http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/v1/query/page", gin.H{"page": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/v1/query/page", gin.H{"page": 3})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetSortRejectsUnknownKey(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{})

	w := doJSON(t, router, http.MethodPut, "/v1/query/sort", gin.H{"sort": "cheapest"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/v1/query/sort", gin.H{"sort": "price-low"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearFiltersResetsQuery(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{})

	w := doJSON(t, router, http.MethodPut, "/v1/query/search", gin.H{"term": "phone"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/v1/query", nil)
	require.Equal(t, http.StatusOK, w.Code)

	query := decodeBody(t, w)["query"].(map[string]any)
	assert.Equal(t, "", query["search_term"])
	assert.Equal(t, "relevance", query["sort"])
	assert.Equal(t, float64(1), query["page"])
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{records: seedRecords(1)})

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total_quantity"])
	assert.Equal(t, 19.98, body["total_amount"])
	assert.Equal(t, "$19.98", body["total_amount_display"])
}

func TestAddItemUnknownProduct(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{})

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 42})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateQuantityOutOfBoundsIsSilentNoop(t *testing.T) {
	router, ledger := newTestRouter(&stubGateway{records: seedRecords(1)})

	w := doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	// stock is 5; asking for 99 must leave the cart untouched
	w = doJSON(t, router, http.MethodPatch, "/v1/cart/items/1", gin.H{"quantity": 99})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ledger.Snapshot().Items[0].Quantity)

	w = doJSON(t, router, http.MethodPatch, "/v1/cart/items/1", gin.H{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, ledger.Snapshot().Items[0].Quantity)
}

func TestRemoveAndClearCart(t *testing.T) {
	router, ledger := newTestRouter(&stubGateway{records: seedRecords(2)})

	doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1})
	doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 2})

	w := doJSON(t, router, http.MethodDelete, "/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ledger.Snapshot().Items, 1)

	w = doJSON(t, router, http.MethodDelete, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ledger.Snapshot().Items)
}

func validCheckoutForm() gin.H {
	return gin.H{
		"email":          "shopper@example.com",
		"first_name":     "Ada",
		"last_name":      "Lovelace",
		"address":        "1 Analytical Way",
		"city":           "London",
		"state":          "LDN",
		"zip_code":       "E1 6AN",
		"payment_method": "credit",
		"card_number":    "4111111111111111",
		"expiry_date":    "12/27",
		"cvv":            "123",
		"name_on_card":   "Ada Lovelace",
	}
}

func TestCheckoutRequiresValidForm(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{records: seedRecords(1)})
	doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1})

	form := validCheckoutForm()
	delete(form, "email")
	w := doJSON(t, router, http.MethodPost, "/v1/checkout", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form = validCheckoutForm()
	delete(form, "card_number")
	w = doJSON(t, router, http.MethodPost, "/v1/checkout", form)
	assert.Equal(t, http.StatusBadRequest, w.Code, "credit payments need card details")
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{})

	w := doJSON(t, router, http.MethodPost, "/v1/checkout", validCheckoutForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "cart is empty")
}

func TestCheckoutClearsCart(t *testing.T) {
	router, ledger := newTestRouter(&stubGateway{records: seedRecords(1)})
	doJSON(t, router, http.MethodPost, "/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})

	w := doJSON(t, router, http.MethodPost, "/v1/checkout", validCheckoutForm())
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["order_id"])
	assert.Equal(t, float64(2), body["total_quantity"])
	assert.Empty(t, ledger.Snapshot().Items)
}

func TestListCategories(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{})

	w := doJSON(t, router, http.MethodGet, "/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)
}
