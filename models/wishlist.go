package models

import "time"

// WishlistItem records membership of a product in a user's wishlist. The
// product snapshot is taken at add time and is allowed to go stale; only the
// (user, product) pairing is authoritative.
type WishlistItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"index:idx_wishlist_user_product,unique" json:"-"`
	ProductID    uint      `gorm:"index:idx_wishlist_user_product,unique" json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	ProductPrice float64   `json:"product_price"`
	AddedAt      time.Time `json:"added_at"`
}
