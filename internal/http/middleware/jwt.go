package middleware

import (
	"net/http"
	"strings"

	"taskquest/internal/domain"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(token string) (domain.Identity, error)
}

// JWT requires "Authorization: Bearer <token>" and stores the identity and
// user_id in the gin context.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			abortError(c, http.StatusUnauthorized, "missing bearer token", "unauthorized")
			return
		}

		id, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid or expired token", "unauthorized")
			return
		}

		c.Set(identityKey, id)
		c.Set("user_id", id.UserID)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by JWT.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok && id.UserID > 0
}

func abortError(c *gin.Context, status int, msg, code string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg, "code": code})
}
