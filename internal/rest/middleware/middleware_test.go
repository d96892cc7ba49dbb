package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		c.Error(ierr.NewError("invoice inv_1 not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": "inv_1"}).
			Mark(ierr.ErrNotFound))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(context.DeadlineExceeded)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invoice not found", resp.Error.Display)
	assert.Equal(t, ierr.ErrCodeNotFound, resp.Error.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp = decodeError(t, w)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Display)
	assert.Equal(t, ierr.ErrCodeSystemError, resp.Error.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/", func(c *gin.Context) {
		seen = types.GetRequestID(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(types.HeaderRequestID, "req_given")
	w := serve(r, req)
	assert.Equal(t, "req_given", seen)
	assert.Equal(t, "req_given", w.Header().Get(types.HeaderRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "req_given", seen)
	assert.Equal(t, seen, w.Header().Get(types.HeaderRequestID))
}

func TestAuthenticate(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = "middleware-secret"
	provider := auth.NewJWTAuth(cfg)
	token, err := provider.IssueToken("user_42", time.Hour)
	require.NoError(t, err)

	var userID string
	r := gin.New()
	r.Use(ErrorHandler(), AuthenticateMiddleware(provider, logger.NewNoopLogger()))
	r.GET("/", func(c *gin.Context) {
		userID = types.GetUserID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusNoContent},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(types.HeaderAuthorization, tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "user_42", userID)
			} else {
				assert.Empty(t, userID)
			}
		})
	}
}

func TestRenderRateLimit(t *testing.T) {
	cfg := config.GetDefaultConfig()
	c := cache.NewInMemoryCache(cfg, logger.NewNoopLogger())

	r := gin.New()
	r.Use(ErrorHandler(), func(ctx *gin.Context) {
		ctx.Request = ctx.Request.WithContext(types.SetUserID(ctx.Request.Context(), ctx.GetHeader("X-User")))
		ctx.Next()
	})
	r.GET("/", RenderRateLimitMiddleware(config.RateLimitConfig{RendersPerSecond: 0.001, Burst: 2}, c), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	get := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user)
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, get("a"))
	assert.Equal(t, http.StatusOK, get("a"))
	assert.Equal(t, http.StatusTooManyRequests, get("a"))
	// limits are per user
	assert.Equal(t, http.StatusOK, get("b"))
}

func TestRenderRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RenderRateLimitMiddleware(config.RateLimitConfig{}, nil), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.test")
	w := serve(r, req)
	assert.Equal(t, "https://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), types.HeaderRenderDegraded)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	open := gin.New()
	open.Use(CORSMiddleware(nil))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = serve(open, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
