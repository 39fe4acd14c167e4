package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/auth"
)

// Context keys for claims stored in gin.Context. Constants so handlers
// and middleware agree on the same spelling.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

// Auth returns middleware that requires a valid bearer token. Missing
// or invalid tokens abort with 401 before the handler runs. Used for
// mutating routes and the message history queries.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, errMsg := claimsFromHeader(c, secret)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Next()
	}
}

// AuthOptional resolves the caller when a valid token is present and
// lets the request through as anonymous otherwise. Personalized read
// routes use this: the service layer answers anonymous callers with an
// empty or null result instead of an error.
func AuthOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := claimsFromHeader(c, secret); claims != nil {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, secret string) (*auth.Claims, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, "missing authorization header"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "invalid authorization format, expected: Bearer <token>"
	}

	claims, err := auth.ParseToken(parts[1], secret)
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}

// GetUserID returns the authenticated caller's id, or uuid.Nil for an
// anonymous request. uuid.Nil is the service layer's "no caller" value.
func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func GetEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}
