package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, "test", time.Minute), mr
}

type payload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key := c.Key("products.get", "1", "RUB")
	c.Set(ctx, key, payload{Name: "Bleu", Price: 7500})

	var got payload
	require.True(t, c.Get(ctx, key, &got))
	assert.Equal(t, "Bleu", got.Name)
	assert.Equal(t, 7500.0, got.Price)
}

func TestCache_MissReturnsFalse(t *testing.T) {
	c, _ := newTestCache(t)

	var got payload
	assert.False(t, c.Get(context.Background(), c.Key("products.get", "404"), &got))
}

func TestCache_KeyDependsOnArgs(t *testing.T) {
	c, _ := newTestCache(t)

	assert.NotEqual(t, c.Key("products.get", "1", "RUB"), c.Key("products.get", "1", "USD"))
	assert.NotEqual(t, c.Key("products.get", "1"), c.Key("products.list", "1"))
	assert.Equal(t, c.Key("products.get", "1", "RUB"), c.Key("products.get", "1", "RUB"))
}

func TestCache_InvalidateByOperation(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	getKey := c.Key("products.get", "1", "RUB")
	listKey := c.Key("products.list", "1", "20", "RUB")
	c.Set(ctx, getKey, payload{Name: "a"})
	c.Set(ctx, listKey, payload{Name: "b"})

	c.Invalidate(ctx, "products.get")

	var got payload
	assert.False(t, c.Get(ctx, getKey, &got), "invalidated operation should miss")
	assert.True(t, c.Get(ctx, listKey, &got), "other operations stay cached")
}

func TestCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key := c.Key("rates.list")
	c.Set(ctx, key, payload{Name: "rates"})

	mr.FastForward(2 * time.Minute)

	var got payload
	assert.False(t, c.Get(ctx, key, &got))
}

func TestCache_NilClientNeverHits(t *testing.T) {
	c := New(nil, "test", time.Minute)
	ctx := context.Background()

	key := c.Key("products.get", "1")
	c.Set(ctx, key, payload{Name: "x"})

	var got payload
	assert.False(t, c.Get(ctx, key, &got))
	c.Invalidate(ctx, "products.get") // must not panic
}
