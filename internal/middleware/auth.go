package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/auth"
	"storefront/internal/models"
)

const claimsKey = "claims"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// AuthGuard requires a valid bearer token and, when roles are given, at least
// one of them. Missing or bad tokens get 401, a missing role 403.
func AuthGuard(tokens TokenParser, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			abortWith(c, apperrors.Unauthorized("missing token"))
			return
		}

		parts := strings.Fields(raw)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWith(c, apperrors.Unauthorized("invalid token"))
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			zap.L().Debug("token validation failed",
				zap.String("route", c.FullPath()),
				zap.Error(err),
			)
			abortWith(c, apperrors.Unauthorized("unauthorized"))
			return
		}

		if len(allowedRoles) > 0 && !claims.HasRole(allowedRoles...) {
			zap.L().Info("role check failed",
				zap.String("route", c.FullPath()),
				zap.String("userId", claims.UserID),
				zap.Strings("roles", claims.Roles),
			)
			abortWith(c, apperrors.Forbidden("forbidden"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func AdminAuth(tokens TokenParser) gin.HandlerFunc {
	return AuthGuard(tokens, models.RoleAdmin)
}

func abortWith(c *gin.Context, err *apperrors.DomainError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.Body())
}
