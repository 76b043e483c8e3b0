package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/velora-commerce/storefront-api/controllers/cart"
	orderControllers "github.com/velora-commerce/storefront-api/controllers/order"
	userControllers "github.com/velora-commerce/storefront-api/controllers/user"
	wishlistControllers "github.com/velora-commerce/storefront-api/controllers/wishlist"
	"github.com/velora-commerce/storefront-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(db)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.AddCartItem(db))
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartItemQuantity(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		// ──────────────── Wishlist ────────────────
		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("/", wishlistControllers.GetWishlist(db))
			wishlistGroup.POST("/:product_id", wishlistControllers.ToggleWishlistItem(db))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.PlaceOrderHandler(db))
			orderGroup.GET("/", orderControllers.GetUserOrdersHandler(db))
			orderGroup.GET("/:order_id", orderControllers.GetOrderByIDHandler(db))
			orderGroup.POST("/:order_id/cancel", orderControllers.CancelOrderHandler(db))
		}
	}
}
