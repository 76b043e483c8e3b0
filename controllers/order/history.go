package orderControllers

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

// -------- Core Logic --------

// ListOrders returns the user's orders, most recent first. Cancelled orders
// are excluded unless includeCancelled is set; they stay on record for audit.
func ListOrders(db *gorm.DB, userID string, includeCancelled bool) ([]models.Order, error) {
	query := db.Preload("Items").Where("user_id = ?", userID)
	if !includeCancelled {
		query = query.Where("status <> ?", models.OrderStatusCancelled)
	}

	var orders []models.Order
	if err := query.Order("placed_at DESC").Find(&orders).Error; err != nil {
		return nil, apperrors.Persistence("failed to fetch orders", err)
	}
	return orders, nil
}

// CancelOrder soft-cancels a pending order: the status flips to cancelled and
// the stock each item took is handed back, in one transaction. The order row
// is kept, and the user's live cart is never touched.
func CancelOrder(db *gorm.DB, userID string, orderID uint) (*models.Order, error) {
	var cancelled models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := lockForUpdate(tx).Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order")
			}
			return apperrors.Persistence("failed to fetch order", err)
		}

		if order.Status != models.OrderStatusPending {
			return apperrors.Conflict("only pending orders can be cancelled")
		}

		// Hand the stock back. Products deleted since placement are skipped;
		// their stock no longer exists to restore.
		for _, item := range order.Items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return apperrors.Persistence("failed to fetch product", err)
			}
			product.Stock += item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return apperrors.Persistence("failed to restore stock", err)
			}
		}

		now := time.Now()
		order.Status = models.OrderStatusCancelled
		order.CancelledAt = &now
		if err := tx.Save(&order).Error; err != nil {
			return apperrors.Persistence("failed to cancel order", err)
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// -------- Handlers --------

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		includeCancelled := c.Query("include_cancelled") == "true"
		orders, err := ListOrders(db, userID, includeCancelled)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:order_id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		// Accepts the numeric id or the order_ref the confirmation page holds.
		// The two never collide: refs always contain a dash. Binding the ref
		// string against the numeric id column would be a type error on
		// Postgres, so the lookup branches instead.
		param := c.Param("order_id")
		query := db.Preload("Items").Where("user_id = ?", userID)
		if id, perr := strconv.ParseUint(param, 10, 64); perr == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("order_ref = ?", param)
		}

		var order models.Order
		err := query.First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("order"))
				return
			}
			apperrors.Respond(c, apperrors.Persistence("failed to fetch order", err))
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:order_id/cancel
//
// The yes/no confirmation gate lives in the client; by the time this endpoint
// is hit the user has confirmed.
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := CancelOrder(db, userID, uint(orderID))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastOrderCancelled(*order)
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		var orders []models.Order
		if err := db.Preload("Items").Order("placed_at DESC").Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.Persistence("failed to fetch orders", err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
