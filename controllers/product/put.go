package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/models"
)

type UpdateProductInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"original_price"`
	Category      *string   `json:"category"`
	Images        *[]string `json:"images"`
	Stock         *int      `json:"stock"`
	IsActive      *bool     `json:"is_active"`
}

// UpdateProduct updates the provided fields of an existing product by ID.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Images").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
				return
			}
			product.Price = *input.Price
		}
		if input.OriginalPrice != nil {
			product.OriginalPrice = *input.OriginalPrice
		}
		if input.Category != nil {
			var category models.Category
			if err := db.Where("name = ?", *input.Category).First(&category).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate category"})
				return
			}
			product.Category = category.Name
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
				return
			}
			product.Stock = *input.Stock
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if input.Images != nil {
				// Replace the gallery wholesale; order in the payload wins.
				if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
					return err
				}
				product.Images = nil
				for i, url := range *input.Images {
					product.Images = append(product.Images, models.ProductImage{ProductID: product.ID, URL: url, Position: i})
				}
			}
			return tx.Save(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
