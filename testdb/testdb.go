// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velora-commerce/storefront-api/models"
)

// Open returns an in-memory SQLite database with the full schema migrated.
// The pool is pinned to one connection so every query sees the same :memory:
// database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// SeedUser creates a user with an empty cart and returns it.
func SeedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.Cart{UserID: user.ID}).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return user
}

// SeedProduct creates an active product in the given category.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:     name,
		Price:    price,
		Category: "general",
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

// SeedCartItem puts a snapshot line for the product into the user's cart.
func SeedCartItem(t *testing.T, db *gorm.DB, user models.User, product models.Product, quantity int) models.CartItem {
	t.Helper()

	var cart models.Cart
	if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
		t.Fatalf("fetch cart: %v", err)
	}

	item := models.CartItem{
		CartID:               cart.CartID,
		ProductID:            product.ID,
		ProductName:          product.Name,
		ProductCategory:      product.Category,
		ProductPrice:         product.Price,
		ProductOriginalPrice: product.OriginalPrice,
		Quantity:             quantity,
		AddedAt:              time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return item
}
