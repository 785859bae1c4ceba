package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/shared/auth"
	"hub-backend/internal/shared/server/respond"
)

// IdentityCookie is the cookie carrying the identity token.
const IdentityCookie = "id_token"

// AccessTokenCookie is the cookie carrying the provider access token.
const AccessTokenCookie = "access_token"

const (
	userIDKey = "userId"
	claimsKey = "identityClaims"
)

// Identity resolves the caller's subject from the id_token cookie and stores
// the decoded claims in context. Requests without a cookie are rejected as
// unauthenticated; requests whose token cannot be decoded or carries no
// subject are rejected as invalid.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(IdentityCookie)
		if err != nil || raw == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authenticated", nil)
			return
		}

		claims, err := auth.DecodeUnverified(raw)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "invalid_token", "Invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// ClaimsFromContext fetches the decoded claims set by the Identity middleware.
func ClaimsFromContext(c *gin.Context) (auth.Claims, bool) {
	if c == nil {
		return auth.Claims{}, false
	}
	val, ok := c.Get(claimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := val.(auth.Claims)
	return claims, ok
}
