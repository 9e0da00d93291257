package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"webquote/internal/domain"
	jwtsvc "webquote/internal/pkg/jwt"
	"webquote/internal/pkg/response"
)

// Auth validates the bearer token and puts the caller's identity on the
// gin context under "user_id", "username" and "role".
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// CallerIdentity rebuilds the identity the Auth middleware stored.
// ok is false when the request never passed Auth.
func CallerIdentity(c *gin.Context) (domain.Identity, bool) {
	username := c.GetString("username")
	if username == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{
		ID:       c.GetInt64("user_id"),
		Username: username,
		Role:     domain.UserRole(c.GetString("role")),
	}, true
}
