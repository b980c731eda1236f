package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl lets browsers keep a per-user copy for maxAgeSeconds. Used on
// bank listings, which change only on import.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore forbids caching, for attempt history and reports that change on
// every submission.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
