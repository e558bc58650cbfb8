package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	empty, err := s.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.Total.IsZero())

	c := New()
	require.NoError(t, c.Add(line("a", "1", 100000, "1.5")))
	require.NoError(t, s.Save(ctx, "sid-1", c))

	got, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, got.Total.Equal(decimal.NewFromInt(150000)))
	assert.False(t, got.Dirty())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb, time.Hour)
	exerciseStore(t, s)

	assert.True(t, mr.Exists("cart:sid-1"))
	mr.FastForward(2 * time.Hour)
	got, err := s.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}
