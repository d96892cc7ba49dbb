package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flexprice/invoicer/internal/auth"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

// AuthenticateMiddleware validates the bearer token and stores the user id
// and raw token in the request context for downstream handlers
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthenticated(c, "missing authorization header", "Unauthorized")
			return
		}

		// Check if the authorization header is in the correct format
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c, "malformed authorization header", "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := provider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthenticated(c, "invalid token", "Invalid token")
			return
		}

		if claims == nil || claims.UserID == "" {
			abortUnauthenticated(c, "token has no user", "Invalid token claims")
			return
		}

		ctx := types.SetUserID(c.Request.Context(), claims.UserID)
		ctx = context.WithValue(ctx, types.CtxJWT, tokenString)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg, hint string) {
	c.Error(ierr.NewError(msg).
		WithHint(hint).
		Mark(ierr.ErrUnauthenticated))
	c.Abort()
}
