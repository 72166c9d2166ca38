package middleware

import (
	"net/http"
	"strings"

	"food-marketplace-api/auth"
	"food-marketplace-api/models"
	"food-marketplace-api/policy"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate resolves the principal from the session cookie (or a Bearer
// header) and stores it in the request context. Fails closed: a missing,
// expired or tampered token just leaves the request anonymous.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if cookie, err := c.Cookie(auth.CookieName); err == nil {
			tokenStr = cookie
		} else if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		}
		if tokenStr != "" {
			if claims := auth.ParseToken(tokenStr); claims != nil {
				c.Set(principalKey, policy.Principal{ID: claims.UserID, Role: claims.Role})
			}
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole enforces that the caller has one of the allowed roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Required role(s): " + rolesString(roles)})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// CurrentPrincipal extracts the authenticated principal, if any.
func CurrentPrincipal(c *gin.Context) (policy.Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return policy.Principal{}, false
	}
	p, ok := val.(policy.Principal)
	return p, ok
}
