package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	OriginalPrice float64        `json:"original_price"` // pre-discount price, display only
	Category      string         `gorm:"index" json:"category"`
	Images        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Stock         int            `gorm:"default:0" json:"stock"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage keeps the gallery ordered; Position 0 is the primary image.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProductID uint   `gorm:"index" json:"-"`
	URL       string `gorm:"not null" json:"url"`
	Position  int    `json:"position"`
}
