package models

import "time"

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem carries a denormalized snapshot of the product's display fields so
// the cart view never needs a catalog join. The snapshot may drift from the
// live product; orders re-snapshot at placement time.
type CartItem struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CartID               uint      `gorm:"index" json:"-"`
	ProductID            uint      `json:"product_id"`
	ProductName          string    `json:"product_name"`
	ProductImage         string    `json:"product_image"`
	ProductCategory      string    `json:"product_category"`
	ProductPrice         float64   `json:"product_price"`
	ProductOriginalPrice float64   `json:"product_original_price"`
	Quantity             int       `json:"quantity"`
	AddedAt              time.Time `json:"added_at"`
}

// ClampQuantity bounds q to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
