package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// NoCache forces revalidation on every API response. Carts and prices
// change mid-shift; a cached bill is a wrong bill.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}
		c.Next()
	}
}
