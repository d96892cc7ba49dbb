package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

const limiterIdleTTL = 10 * time.Minute

// RenderRateLimitMiddleware throttles render endpoints per user. Limiters
// live in the cache and are dropped once a user has been idle for a while.
func RenderRateLimitMiddleware(cfg config.RateLimitConfig, c cache.Cache) gin.HandlerFunc {
	if cfg.RendersPerSecond <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		userID := types.GetUserID(ctx.Request.Context())
		key := cache.GenerateKey(cache.PrefixRateLimit, userID)

		var limiter *rate.Limiter
		if v, ok := c.Get(ctx.Request.Context(), key); ok {
			limiter, _ = v.(*rate.Limiter)
		}
		if limiter == nil {
			limiter = rate.NewLimiter(rate.Limit(cfg.RendersPerSecond), burst)
		}
		// refresh the idle expiry on every request
		c.Set(ctx.Request.Context(), key, limiter, limiterIdleTTL)

		if !limiter.Allow() {
			ctx.Error(ierr.NewError("render rate limit exceeded").
				WithHint("Too many render requests, please retry shortly").
				Mark(ierr.ErrRateLimited))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
