package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JobToken guards batch-job triggers with a shared X-Job-Token header.
// An empty token leaves the routes open, for local use.
func JobToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-Job-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			abortError(c, http.StatusUnauthorized, "invalid job token", "unauthorized")
			return
		}
		c.Next()
	}
}
