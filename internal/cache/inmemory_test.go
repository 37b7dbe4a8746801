package cache

import (
	"context"
	"testing"
	"time"

	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/stretchr/testify/assert"
)

func newTestCache(enabled bool) Cache {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = enabled
	return NewInMemoryCache(cfg, logger.NewNoopLogger())
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "tiertable:v1:itm_1:agent", GenerateKey(PrefixTierTable, "itm_1", "agent"))
	assert.Equal(t, "item:v1:42", GenerateKey(PrefixItem, 42))
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	c.Set(ctx, GenerateKey(PrefixTierTable, "itm_1", "public"), "a", time.Minute)
	c.Set(ctx, GenerateKey(PrefixTierTable, "itm_1", "agent"), "b", 0)
	c.Set(ctx, GenerateKey(PrefixTierTable, "itm_2", "public"), "c", time.Minute)

	v, ok := c.Get(ctx, GenerateKey(PrefixTierTable, "itm_1", "agent"))
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	c.DeleteByPrefix(ctx, GenerateKey(PrefixTierTable, "itm_1"))
	_, ok = c.Get(ctx, GenerateKey(PrefixTierTable, "itm_1", "public"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixTierTable, "itm_2", "public"))
	assert.True(t, ok)

	c.Delete(ctx, GenerateKey(PrefixTierTable, "itm_2", "public"))
	_, ok = c.Get(ctx, GenerateKey(PrefixTierTable, "itm_2", "public"))
	assert.False(t, ok)

	c.Set(ctx, "x", 1, time.Minute)
	c.Flush(ctx)
	_, ok = c.Get(ctx, "x")
	assert.False(t, ok)
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(false)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
