package cartControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-commerce/storefront-api/apperrors"
	"github.com/velora-commerce/storefront-api/models"
	"github.com/velora-commerce/storefront-api/testdb"
)

func TestAddOrIncrementCreatesSnapshotLine(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)

	item, err := AddOrIncrement(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Walnut Chair", item.ProductName)
	assert.Equal(t, 500.0, item.ProductPrice)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddOrIncrementBumpsExistingLine(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)

	_, err := AddOrIncrement(db, user.ID, product.ID, 2)
	require.NoError(t, err)
	item, err := AddOrIncrement(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)

	items, err := Items(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddOrIncrementClampsToMax(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 50)

	_, err := AddOrIncrement(db, user.ID, product.ID, 8)
	require.NoError(t, err)
	item, err := AddOrIncrement(db, user.ID, product.ID, 8)
	require.NoError(t, err)

	assert.Equal(t, models.MaxQuantity, item.Quantity)
}

func TestAddOrIncrementRejectsUnknownProduct(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")

	_, err := AddOrIncrement(db, user.ID, 9999, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddOrIncrementRejectsInactiveProduct(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Retired Lamp", 200, 5)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	_, err := AddOrIncrement(db, user.ID, product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSetQuantityOutOfRangeLeavesLineUnchanged(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, product, 4)

	for _, q := range []int{0, -3, 11, 100} {
		_, err := SetQuantity(db, user.ID, product.ID, q)

		var verrs apperrors.ValidationErrors
		require.ErrorAs(t, err, &verrs, "quantity %d should be rejected", q)
		assert.Contains(t, verrs, "quantity")

		items, err := Items(db, user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity, "quantity %d must not change the line", q)
	}
}

func TestSetQuantityReplacesWithinRange(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, product, 4)

	item, err := SetQuantity(db, user.ID, product.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)
}

func TestRemoveItem(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	product := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	testdb.SeedCartItem(t, db, user, product, 1)

	require.NoError(t, RemoveItem(db, user.ID, product.ID))

	items, err := Items(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = RemoveItem(db, user.ID, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClearEmptiesCart(t *testing.T) {
	db := testdb.Open(t)
	user := testdb.SeedUser(t, db, "cart@example.com")
	first := testdb.SeedProduct(t, db, "Walnut Chair", 500, 10)
	second := testdb.SeedProduct(t, db, "Brass Lamp", 1200, 5)
	testdb.SeedCartItem(t, db, user, first, 2)
	testdb.SeedCartItem(t, db, user, second, 1)

	require.NoError(t, Clear(db, user.ID))

	items, err := Items(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
