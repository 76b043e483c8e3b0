package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/models"
)

type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice float64  `json:"original_price"`
	Category      string   `json:"category" binding:"required"`
	Images        []string `json:"images"`
	Stock         int      `json:"stock" binding:"min=0"`
	IsActive      *bool    `json:"is_active"`
}

// CreateProduct creates a product under a known category.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Category must come from the server-maintained set.
		var category models.Category
		if err := db.Where("name = ?", input.Category).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate category"})
			return
		}

		images := make([]models.ProductImage, 0, len(input.Images))
		for i, url := range input.Images {
			images = append(images, models.ProductImage{URL: url, Position: i})
		}

		isActive := true
		if input.IsActive != nil {
			isActive = *input.IsActive
		}

		product := models.Product{
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			Category:      category.Name,
			Images:        images,
			Stock:         input.Stock,
			IsActive:      isActive,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
