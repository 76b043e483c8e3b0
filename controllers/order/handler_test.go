package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/models"
	"github.com/velora-commerce/storefront-api/testdb"
)

func newCheckoutRouter(db *gorm.DB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.POST("/user/orders", PlaceOrderHandler(db))
	r.GET("/user/orders/:order_id", GetOrderByIDHandler(db))
	return r
}

func postOrder(t *testing.T, r *gin.Engine, req PlaceOrderRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq := httptest.NewRequest(http.MethodPost, "/user/orders", bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func TestPlaceOrderHandlerCreated(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 2)

	w := postOrder(t, newCheckoutRouter(db, user.ID), validRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.NotEmpty(t, order.OrderRef)
	assert.Equal(t, 1200.0, order.TotalAmount) // 1000 + 100 shipping + 50 tax
}

func TestPlaceOrderHandlerFieldKeyedErrors(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 2)

	req := validRequest()
	req.Shipping.City = ""
	req.Shipping.State = ""

	w := postOrder(t, newCheckoutRouter(db, user.ID), req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "shipping_city")
	assert.Contains(t, resp.Errors, "shipping_state")
}

func TestGetOrderHandlerByIDAndByRef(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 2)

	placed, err := PlaceOrder(db, user.ID, validRequest())
	require.NoError(t, err)
	r := newCheckoutRouter(db, user.ID)

	// Numeric id and the order_ref the confirmation page holds both resolve.
	for _, param := range []string{strconv.FormatUint(uint64(placed.ID), 10), placed.OrderRef} {
		req := httptest.NewRequest(http.MethodGet, "/user/orders/"+param, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got models.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, placed.ID, got.ID)
		assert.Equal(t, placed.OrderRef, got.OrderRef)
	}

	// An unknown ref is a 404, not a type error.
	req := httptest.NewRequest(http.MethodGet, "/user/orders/20260101000000-not-a-real-ref", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrderHandlerInsufficientStockConflict(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 1)
	testdb.SeedCartItem(t, db, user, chair, 5)

	w := postOrder(t, newCheckoutRouter(db, user.ID), validRequest())
	assert.Equal(t, http.StatusConflict, w.Code)
}
