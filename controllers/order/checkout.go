package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velora-commerce/storefront-api/apperrors"
	eventsControllers "github.com/velora-commerce/storefront-api/controllers/events"
	"github.com/velora-commerce/storefront-api/middleware"
	"github.com/velora-commerce/storefront-api/models"
)

// ShippingCost is the flat per-order shipping fee. TaxRate is applied to the
// subtotal and rounded to the nearest whole currency unit.
var (
	ShippingCost = decimal.NewFromInt(100)
	TaxRate      = decimal.NewFromFloat(0.05)
)

// Summary is the order arithmetic: subtotal + flat shipping + rounded 5% tax.
type Summary struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// ComputeSummary totals the cart lines. Money math runs on decimals so the
// stored totals never pick up float artifacts.
func ComputeSummary(items []models.CartItem) Summary {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.ProductPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	tax := subtotal.Mul(TaxRate).Round(0)
	return Summary{
		Subtotal:     subtotal,
		ShippingCost: ShippingCost,
		Tax:          tax,
		Total:        subtotal.Add(ShippingCost).Add(tax),
	}
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// lockForUpdate takes a row lock on Postgres. SQLite (used in tests) has a
// single writer, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// PlaceOrder converts the user's cart into an order.
//
// Everything runs in one transaction: stock is checked and decremented under
// row locks, the order is created from a cart snapshot, and the cart is
// cleared. Any failure rolls the whole placement back, so there is never an
// order whose stock was not taken or a decrement without an order.
//
// The client-supplied idempotency key makes retries safe: a replay returns
// the order the first attempt created instead of placing a second one.
func PlaceOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (*models.Order, error) {
	if verrs := ValidateOrderRequest(req); verrs != nil {
		return nil, verrs
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, apperrors.Persistence("failed to fetch user", err)
	}
	if user.IsBlocked {
		return nil, apperrors.ErrForbidden
	}

	var placed models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// Replay of a previous successful placement. The key index is global,
		// so a key that exists under another account is rejected rather than
		// leaking that account's order.
		var existing models.Order
		err := tx.Preload("Items").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
		if err == nil {
			if existing.UserID != userID {
				return apperrors.Conflict("idempotency key already used")
			}
			placed = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Persistence("failed to check idempotency key", err)
		}

		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return apperrors.Persistence("failed to fetch cart", err)
		}
		if len(cart.Items) == 0 {
			return apperrors.Conflict("cart is empty")
		}

		var orderItems []models.OrderItem
		for _, item := range cart.Items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Conflict("product no longer available: " + item.ProductName)
				}
				return apperrors.Persistence("failed to fetch product", err)
			}

			if !product.IsActive {
				return apperrors.Conflict("product no longer available: " + product.Name)
			}
			if product.Stock < item.Quantity {
				return apperrors.Conflict("insufficient stock for product: " + product.Name)
			}

			// Deduct stock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return apperrors.Persistence("failed to update stock", err)
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:            item.ProductID,
				ProductName:          item.ProductName,
				ProductImage:         item.ProductImage,
				ProductCategory:      item.ProductCategory,
				ProductPrice:         item.ProductPrice,
				ProductOriginalPrice: item.ProductOriginalPrice,
				Quantity:             item.Quantity,
			})
		}

		summary := ComputeSummary(cart.Items)

		status := models.OrderStatusPending
		if models.PaymentMethod(req.PaymentMethod) == models.PaymentMethodCard {
			// Card settlement is modeled as always succeeding once validated.
			status = models.OrderStatusPaid
		}

		billing := req.Shipping
		if !req.BillingSameAsShipping && req.Billing != nil {
			billing = *req.Billing
		}

		order := models.Order{
			OrderRef:              generateOrderRef(),
			IdempotencyKey:        req.IdempotencyKey,
			UserID:                userID,
			ContactEmail:          user.Email,
			Newsletter:            req.Newsletter,
			Shipping:              toAddress(req.Shipping),
			Billing:               toAddress(billing),
			BillingSameAsShipping: req.BillingSameAsShipping,
			Items:                 orderItems,
			PaymentMethod:         models.PaymentMethod(req.PaymentMethod),
			Subtotal:              summary.Subtotal.InexactFloat64(),
			ShippingCost:          summary.ShippingCost.InexactFloat64(),
			Tax:                   summary.Tax.InexactFloat64(),
			TotalAmount:           summary.Total.InexactFloat64(),
			Status:                status,
			PlacedAt:              time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a double-submit race; the other request placed it.
				return apperrors.Conflict("order already placed")
			}
			return apperrors.Persistence("failed to create order", err)
		}

		// Clear cart items
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return apperrors.Persistence("failed to clear cart", err)
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

// -------- Handlers --------

// POST /user/orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := PlaceOrder(db, userID, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		eventsControllers.BroadcastOrderPlaced(*order)
		eventsControllers.BroadcastCartUpdated(userID, 0)
		c.JSON(http.StatusCreated, order)
	}
}
