package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
)

// UserAuth accepts any signed-in user regardless of role.
func UserAuth(tokens TokenParser) gin.HandlerFunc {
	return AuthGuard(tokens)
}

// ClaimsFromContext returns the claims stored by AuthGuard.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
