package models

import "time"

type OrderStatus string
type PaymentMethod string

const (
	// Cash-on-delivery orders start pending; card orders are modeled as
	// settled at placement. Cancellation is the only later transition.
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

// Address is embedded twice on Order, once per prefix, so shipping and
// billing survive as flat columns.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
}

type Order struct {
	ID                    uint          `gorm:"primaryKey" json:"id"`
	OrderRef              string        `gorm:"uniqueIndex;not null" json:"order_ref"`
	IdempotencyKey        string        `gorm:"uniqueIndex;not null" json:"idempotency_key"`
	UserID                string        `gorm:"index;not null" json:"user_id"`
	ContactEmail          string        `json:"contact_email"`
	Newsletter            bool          `json:"newsletter"`
	Shipping              Address       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Billing               Address       `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	BillingSameAsShipping bool          `json:"billing_same_as_shipping"`
	Items                 []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	PaymentMethod         PaymentMethod `gorm:"type:VARCHAR(10)" json:"payment_method"`
	Subtotal              float64       `json:"subtotal"`
	ShippingCost          float64       `json:"shipping_cost"`
	Tax                   float64       `json:"tax"`
	TotalAmount           float64       `json:"total_amount"`
	Status                OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PlacedAt              time.Time     `json:"placed_at"`
	CancelledAt           *time.Time    `json:"cancelled_at,omitempty"`
}

// OrderItem is the frozen copy of a cart line at placement time. It is
// deliberately decoupled from the live product row so history stays stable
// when the catalog is edited or a product is deleted.
type OrderItem struct {
	ID                   uint    `gorm:"primaryKey" json:"id"`
	OrderID              uint    `gorm:"index" json:"-"`
	ProductID            uint    `json:"product_id"`
	ProductName          string  `json:"product_name"`
	ProductImage         string  `json:"product_image"`
	ProductCategory      string  `json:"product_category"`
	ProductPrice         float64 `json:"product_price"`
	ProductOriginalPrice float64 `json:"product_original_price"`
	Quantity             int     `json:"quantity"`
}
