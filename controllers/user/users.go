package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/velora-commerce/storefront-api/apperrors"
	"github.com/velora-commerce/storefront-api/middleware"
	"github.com/velora-commerce/storefront-api/models"
)

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type BlockUserInput struct {
	Blocked bool `json:"blocked"`
}

// GET /user
//
// Current-user refresh: the client re-fetches its identity record here. A 404
// tells the client the account is gone and the session must end.
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		var user models.User
		err := db.Preload("Cart.Items").
			Preload("WishlistItems").
			Preload("Orders", func(db *gorm.DB) *gorm.DB {
				return db.Order("placed_at DESC")
			}).
			Preload("Orders.Items").
			First(&user, "id = ?", userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("user"))
				return
			}
			apperrors.Respond(c, apperrors.Persistence("failed to fetch user", err))
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID, ok := middleware.UserID(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthenticated)
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("user"))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil && *input.Name != "" {
			updates["name"] = *input.Name
		}
		if input.Password != nil {
			if len(*input.Password) < 6 {
				apperrors.Respond(c, apperrors.ValidationErrors{"password": "must be at least 6 characters"})
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				apperrors.Respond(c, apperrors.Persistence("failed to hash password", err))
				return
			}
			updates["password_hash"] = string(hash)
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				apperrors.Respond(c, apperrors.Persistence("failed to update user", err))
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		var users []models.User
		if err := db.
			Select("id", "email", "name", "role", "is_blocked", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			apperrors.Respond(c, apperrors.Persistence("failed to fetch users", err))
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /admin/users/:user_id/block
func SetUserBlocked(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		userID := c.Param("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			apperrors.Respond(c, apperrors.NotFound("user"))
			return
		}

		var input BlockUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := db.Model(&user).Update("is_blocked", input.Blocked).Error; err != nil {
			apperrors.Respond(c, apperrors.Persistence("failed to update user", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": user.ID, "is_blocked": input.Blocked})
	}
}
