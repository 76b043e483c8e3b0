package wishlistControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/apperrors"
	"github.com/velora-commerce/storefront-api/middleware"
	"github.com/velora-commerce/storefront-api/models"
)

// -------- Core Logic --------

// Toggle flips membership of the product in the user's wishlist and reports
// whether the product is a member afterwards. Toggling twice restores the
// original membership.
func Toggle(db *gorm.DB, userID string, productID uint) (bool, error) {
	var existing models.WishlistItem
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		if err := db.Delete(&existing).Error; err != nil {
			return true, apperrors.Persistence("failed to remove from wishlist", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Persistence("failed to fetch wishlist item", err)
	}

	var product models.Product
	if err := db.Preload("Images").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("product")
		}
		return false, apperrors.Persistence("failed to validate product", err)
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0].URL
	}
	item := models.WishlistItem{
		UserID:       userID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductImage: image,
		ProductPrice: product.Price,
		AddedAt:      time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		// A concurrent toggle may have won the race; the unique index keeps
		// membership consistent either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, apperrors.Persistence("failed to add to wishlist", err)
	}
	return true, nil
}

// Items returns the user's wishlist, most recently added first.
func Items(db *gorm.DB, userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := db.Where("user_id = ?", userID).Order("added_at DESC").Find(&items).Error; err != nil {
		return nil, apperrors.Persistence("failed to fetch wishlist", err)
	}
	return items, nil
}

// -------- Handlers --------

// POST /user/wishlist/:product_id
func ToggleWishlistItem(db *gorm.DB) gin.HandlerFunc {
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

		inWishlist, err := Toggle(db, userID, uint(productID))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product_id": productID, "in_wishlist": inWishlist})
	}
}

// GET /user/wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
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
