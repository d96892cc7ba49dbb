package cache

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	c := NewInMemoryCache(cfg, logger.NewNoopLogger())

	key := GenerateKey(PrefixLogo, "https://cdn.test/logo.png")
	assert.Equal(t, "logo:v1::https://cdn.test/logo.png", key)

	c.Set(ctx, key, []byte("png"), 0)
	v, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, []byte("png"), v)

	c.Set(ctx, GenerateKey(PrefixRateLimit, "user_1"), "p", time.Minute)
	c.DeleteByPrefix(ctx, PrefixLogo)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixRateLimit, "user_1"))
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, GenerateKey(PrefixRateLimit, "user_1"))
	assert.False(t, ok)
}

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.GetDefaultConfig(), logger.NewNoopLogger())

	c.Set(ctx, "k", 1, time.Millisecond)
	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg, logger.NewNoopLogger())

	c.Set(ctx, "k", 1, time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
