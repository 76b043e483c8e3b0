package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Role          Role           `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	IsBlocked     bool           `gorm:"default:false" json:"is_blocked"`
	Cart          Cart           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	WishlistItems []WishlistItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"wishlist"`
	Orders        []Order        `gorm:"foreignKey:UserID" json:"orders"`
	CreatedAt     time.Time      `json:"created_at"`
}
