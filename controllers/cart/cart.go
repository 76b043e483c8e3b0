package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/apperrors"
	eventsControllers "github.com/velora-commerce/storefront-api/controllers/events"
	"github.com/velora-commerce/storefront-api/middleware"
	"github.com/velora-commerce/storefront-api/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// -------- Core Logic --------

func userCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart")
		}
		return nil, apperrors.Persistence("failed to fetch cart", err)
	}
	return &cart, nil
}

// AddOrIncrement appends a new snapshot line for the product, or bumps the
// quantity of the existing line. The resulting quantity is always clamped to
// [1,10].
func AddOrIncrement(db *gorm.DB, userID string, productID uint, quantity int) (*models.CartItem, error) {
	var product models.Product
	if err := db.Preload("Images").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Persistence("failed to validate product", err)
	}
	if !product.IsActive {
		return nil, apperrors.Conflict("product is not available")
	}

	cart, err := userCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0].URL
		}
		item = models.CartItem{
			CartID:               cart.CartID,
			ProductID:            product.ID,
			ProductName:          product.Name,
			ProductImage:         image,
			ProductCategory:      product.Category,
			ProductPrice:         product.Price,
			ProductOriginalPrice: product.OriginalPrice,
			Quantity:             models.ClampQuantity(quantity),
			AddedAt:              time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, apperrors.Persistence("failed to add item to cart", err)
		}
		return &item, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to fetch cart item", err)
	}

	item.Quantity = models.ClampQuantity(item.Quantity + quantity)
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return nil, apperrors.Persistence("failed to update cart item", err)
	}
	return &item, nil
}

// SetQuantity replaces the line's quantity. A quantity outside [1,10] is
// rejected before any write, leaving the line untouched.
func SetQuantity(db *gorm.DB, userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < models.MinQuantity || quantity > models.MaxQuantity {
		return nil, apperrors.ValidationErrors{"quantity": "must be between 1 and 10"}
	}

	cart, err := userCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart item")
		}
		return nil, apperrors.Persistence("failed to fetch cart item", err)
	}

	item.Quantity = quantity
	if err := db.Save(&item).Error; err != nil {
		return nil, apperrors.Persistence("failed to update cart item", err)
	}
	return &item, nil
}

// RemoveItem deletes the line for the product from the user's cart.
func RemoveItem(db *gorm.DB, userID string, productID uint) error {
	cart, err := userCart(db, userID)
	if err != nil {
		return err
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return apperrors.Persistence("failed to delete cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cart item")
	}
	return nil
}

// Clear removes every line from the user's cart.
func Clear(db *gorm.DB, userID string) error {
	cart, err := userCart(db, userID)
	if err != nil {
		return err
	}
	if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return apperrors.Persistence("failed to clear cart", err)
	}
	return nil
}

// Items returns the cart lines in insertion order.
func Items(db *gorm.DB, userID string) ([]models.CartItem, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart")
		}
		return nil, apperrors.Persistence("failed to fetch cart", err)
	}
	return cart.Items, nil
}

func itemCount(db *gorm.DB, userID string) int {
	items, err := Items(db, userID)
	if err != nil {
		return 0
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// -------- Handlers --------

// POST /user/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddOrIncrement(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastCartUpdated(userID, itemCount(db, userID))
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /user/cart/:product_id
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := SetQuantity(db, userID, uint(productID), input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastCartUpdated(userID, itemCount(db, userID))
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if err := RemoveItem(db, userID, uint(productID)); err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastCartUpdated(userID, itemCount(db, userID))
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		if err := Clear(db, userID); err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastCartUpdated(userID, 0)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		items, err := Items(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		items, err := Items(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}
