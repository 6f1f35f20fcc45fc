package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"faturah/internal/core/apperror"
	appctx "faturah/internal/core/context"
	"faturah/internal/core/tenant"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens, populates the user context and
// resolves the tenant scope. Users are their own tenants: the scope is
// derived entirely from the token, no extra lookup.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthenticated(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthenticated(c, "invalid token")
			return
		}

		scope, err := tenant.Resolve(user)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		ctx = tenant.WithScope(ctx, scope)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthenticated(message))
	c.Abort()
}
