package middleware

import (
	"net/http"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxClaims = "claims"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*service.Claims, error)
}

// JWT requires a bearer token: missing is 401, anything unverifiable is 403.
func JWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if header == "" || (found && raw == "") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "malformed authorization header"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when a valid token is present and never rejects.
func OptionalJWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			if claims, err := tokens.Parse(strings.TrimSpace(raw)); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxRole, claims.Role)
				c.Set(ctxClaims, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after JWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func Claims(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}

func IsAdmin(c *gin.Context) bool {
	v, ok := c.Get(ctxRole)
	if !ok {
		return false
	}
	role, ok := v.(domain.Role)
	return ok && role == domain.RoleAdmin
}
