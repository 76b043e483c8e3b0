package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestDeadline puts a deadline on every request's context. Handlers run
// their database calls through this context, so a stuck query is cut off and
// surfaces as a 504 instead of holding the connection open.
func RequestDeadline(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
