package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/flexprice/invoicer/internal/pyroscope"
)

// PyroscopeMiddleware labels profiles with the route and requested template
func PyroscopeMiddleware(svc *pyroscope.Service) gin.HandlerFunc {
	if svc == nil || !svc.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := map[string]string{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
		}
		if id := c.Query("template_id"); id != "" {
			labels["template_id"] = id
		}

		svc.TagWrapper(c.Request.Context(), labels, func(context.Context) {
			c.Next()
		})
	}
}
