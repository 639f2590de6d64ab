package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/internal/models"
	"backoffice/internal/service"
	"backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	checkout := service.NewCheckoutService(mem, nil, nil)

	router := gin.New()
	NewHandler(checkout, mem).SetupRoutes(router)
	return router, mem
}

func seedCatalog(t *testing.T, mem *store.Memory) (custID, prodID int64) {
	t.Helper()

	c := &models.Customer{Name: "Riley Soto", City: "Denver", State: "CO", Country: "USA"}
	require.NoError(t, mem.InsertCustomer(context.Background(), c))

	p := &models.Product{
		Name:      "Gaming Headset",
		Category:  models.CategoryPeripheral,
		UnitPrice: decimal.NewFromFloat(79.90),
		UnitCost:  decimal.NewFromFloat(42.00),
		Stock:     4,
		MinStock:  2,
	}
	require.NoError(t, mem.InsertProduct(context.Background(), p))
	return c.ID, p.ID
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpointCreated(t *testing.T) {
	router, mem := setupRouter(t)
	custID, prodID := seedCatalog(t, mem)

	w := postJSON(router, "/api/v1/checkout", gin.H{
		"customer_id":    custID,
		"items":          []gin.H{{"product_id": prodID, "price": "79.90"}},
		"total":          "79.90",
		"payment_method": "pix",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp service.CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Positive(t, resp.OrderID)
	assert.Equal(t, 7, resp.PointsEarned)
}

func TestCheckoutEndpointValidation(t *testing.T) {
	router, mem := setupRouter(t)
	custID, _ := seedCatalog(t, mem)

	w := postJSON(router, "/api/v1/checkout", gin.H{
		"customer_id":    custID,
		"items":          []gin.H{},
		"total":          "10.00",
		"payment_method": "pix",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "items")
}

func TestCheckoutEndpointMalformedBody(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpointOutOfStock(t *testing.T) {
	router, mem := setupRouter(t)
	custID, prodID := seedCatalog(t, mem)

	items := make([]gin.H, 5)
	for i := range items {
		items[i] = gin.H{"product_id": prodID, "price": "79.90"}
	}

	w := postJSON(router, "/api/v1/checkout", gin.H{
		"customer_id":    custID,
		"items":          items,
		"total":          "399.50",
		"payment_method": "credit_card",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("%d", prodID))
}

func TestGetOrderEndpoint(t *testing.T) {
	router, mem := setupRouter(t)
	custID, prodID := seedCatalog(t, mem)

	created := postJSON(router, "/api/v1/checkout", gin.H{
		"customer_id":    custID,
		"items":          []gin.H{{"product_id": prodID, "price": "79.90"}},
		"total":          "79.90",
		"payment_method": "debit_card",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var resp service.CheckoutResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := getPath(router, fmt.Sprintf("/api/v1/orders/%d", resp.OrderID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completed")

	w = getPath(router, "/api/v1/orders/9999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = getPath(router, "/api/v1/orders/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpoints(t *testing.T) {
	router, mem := setupRouter(t)
	seedCatalog(t, mem)

	w := getPath(router, "/api/v1/products")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gaming Headset")

	w = getPath(router, "/api/v1/stock")
	assert.Equal(t, http.StatusOK, w.Code)

	w = getPath(router, "/api/v1/customers")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Riley Soto")

	w = getPath(router, "/api/v1/loyalty")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := getPath(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = getPath(router, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}
