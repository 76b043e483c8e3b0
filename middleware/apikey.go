package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velora-commerce/storefront-api/config"
)

func ValidateAPIKey(c *gin.Context) {
	apiKey := c.GetHeader("X-API-KEY")
	if apiKey == "" || apiKey != config.AdminAPIKey() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		c.Abort()
		return
	}
	c.Next()
}
