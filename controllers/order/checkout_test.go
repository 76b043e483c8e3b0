package orderControllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-commerce/storefront-api/apperrors"
	"github.com/velora-commerce/storefront-api/models"
	"github.com/velora-commerce/storefront-api/testdb"
)

func TestComputeSummary(t *testing.T) {
	items := []models.CartItem{
		{ProductPrice: 500, Quantity: 2},
		{ProductPrice: 1200, Quantity: 1},
	}

	summary := ComputeSummary(items)

	assert.Equal(t, 2200.0, summary.Subtotal.InexactFloat64())
	assert.Equal(t, 100.0, summary.ShippingCost.InexactFloat64())
	assert.Equal(t, 110.0, summary.Tax.InexactFloat64())
	assert.Equal(t, 2410.0, summary.Total.InexactFloat64())
}

func TestComputeSummaryRoundsTax(t *testing.T) {
	// 5% of 1010 is 50.5, which rounds to 51.
	summary := ComputeSummary([]models.CartItem{{ProductPrice: 1010, Quantity: 1}})

	assert.Equal(t, 51.0, summary.Tax.InexactFloat64())
	assert.Equal(t, 1161.0, summary.Total.InexactFloat64())
}

func TestPlaceOrderHappyPath(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	lamp := testdb.SeedProduct(t, db, "Brass Lamp", 1200, 5)
	testdb.SeedCartItem(t, db, user, chair, 2)
	testdb.SeedCartItem(t, db, user, lamp, 1)

	order, err := PlaceOrder(db, user.ID, validRequest())
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.OrderRef)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, "buyer@example.com", order.ContactEmail)
	assert.Equal(t, 2200.0, order.Subtotal)
	assert.Equal(t, 100.0, order.ShippingCost)
	assert.Equal(t, 110.0, order.Tax)
	assert.Equal(t, 2410.0, order.TotalAmount)

	// The order snapshot matches the pre-placement cart contents.
	require.Len(t, order.Items, 2)
	assert.Equal(t, chair.ID, order.Items[0].ProductID)
	assert.Equal(t, "Walnut Chair", order.Items[0].ProductName)
	assert.Equal(t, 500.0, order.Items[0].ProductPrice)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, lamp.ID, order.Items[1].ProductID)
	assert.Equal(t, 1, order.Items[1].Quantity)

	// The cart is empty the moment the order exists.
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	// Stock was decremented exactly once per line.
	var gotChair, gotLamp models.Product
	require.NoError(t, db.First(&gotChair, chair.ID).Error)
	require.NoError(t, db.First(&gotLamp, lamp.ID).Error)
	assert.Equal(t, 8, gotChair.Stock)
	assert.Equal(t, 4, gotLamp.Stock)

	orders, err := ListOrders(db, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderCardIsPaid(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 1)

	req := validRequest()
	req.PaymentMethod = "card"
	req.Card = &CardInput{Number: "4111111111111111", Expiry: "09/28", CVV: "123", NameOnCard: "Asha Menon"}

	order, err := PlaceOrder(db, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, models.PaymentMethodCard, order.PaymentMethod)
}

func TestPlaceOrderValidationBlocksAllWrites(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 3)

	req := validRequest()
	req.Shipping.City = ""

	_, err := PlaceOrder(db, user.ID, req)

	var verrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "shipping_city")

	// Nothing was written: no order, stock untouched, cart intact.
	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var product models.Product
	require.NoError(t, db.First(&product, chair.ID).Error)
	assert.Equal(t, 10, product.Stock)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, itemCount)
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	lamp := testdb.SeedProduct(t, db, "Brass Lamp", 1200, 2)
	testdb.SeedCartItem(t, db, user, chair, 2)
	testdb.SeedCartItem(t, db, user, lamp, 3) // more than in stock

	_, err := PlaceOrder(db, user.ID, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// The chair decrement happened before the lamp failure, so the rollback
	// must have undone it.
	var gotChair models.Product
	require.NoError(t, db.First(&gotChair, chair.ID).Error)
	assert.Equal(t, 10, gotChair.Stock)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 2, itemCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")

	_, err := PlaceOrder(db, user.ID, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPlaceOrderIdempotencyKeyReplay(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 3)

	req := validRequest()
	first, err := PlaceOrder(db, user.ID, req)
	require.NoError(t, err)

	// The retry carries the same key, as after a timed-out response.
	second, err := PlaceOrder(db, user.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OrderRef, second.OrderRef)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)

	// Stock came off once, not twice.
	var product models.Product
	require.NoError(t, db.First(&product, chair.ID).Error)
	assert.Equal(t, 7, product.Stock)
}

func TestPlaceOrderIdempotencyKeyFromAnotherUserRejected(t *testing.T) {
	db := testdb.Open(t)
	alice := testdb.SeedUser(t, db, "alice@example.com")
	bob := testdb.SeedUser(t, db, "bob@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, alice, chair, 1)
	testdb.SeedCartItem(t, db, bob, chair, 1)

	req := validRequest()
	aliceOrder, err := PlaceOrder(db, alice.ID, req)
	require.NoError(t, err)

	// The same key under another account must not replay Alice's order.
	_, err = PlaceOrder(db, bob.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var orders []models.Order
	require.NoError(t, db.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
	assert.Equal(t, aliceOrder.ID, orders[0].ID)

	// Bob's cart is untouched; a fresh key places his order normally.
	var bobItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&bobItems).Error)
	assert.EqualValues(t, 1, bobItems)

	req.IdempotencyKey = uuid.NewString()
	bobOrder, err := PlaceOrder(db, bob.ID, req)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, bobOrder.UserID)
}

func TestPlaceOrderFreshKeyPlacesSecondOrder(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)

	testdb.SeedCartItem(t, db, user, chair, 1)
	_, err := PlaceOrder(db, user.ID, validRequest())
	require.NoError(t, err)

	testdb.SeedCartItem(t, db, user, chair, 1)
	req := validRequest()
	req.IdempotencyKey = uuid.NewString()
	_, err = PlaceOrder(db, user.ID, req)
	require.NoError(t, err)

	orders, err := ListOrders(db, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestPlaceOrderBlockedUser(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 1)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_blocked", true).Error)

	_, err := PlaceOrder(db, user.ID, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPlaceOrderInactiveProductAborts(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "buyer@example.com")
	chair := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, chair, 1)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", chair.ID).Update("is_active", false).Error)

	_, err := PlaceOrder(db, user.ID, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
