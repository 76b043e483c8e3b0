package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	eventsControllers "github.com/velora-commerce/storefront-api/controllers/events"
	productcontroller "github.com/velora-commerce/storefront-api/controllers/product"
)

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Public catalog
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))

	// Websocket event feed (cart badges, order confirmations)
	r.GET("/ws/events", eventsControllers.EventsWebSocketHandler)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
