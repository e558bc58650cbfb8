package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/core/cache"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/repo/memory"
	"seafood-shop/internal/service"
)

func memRepos() Repos {
	m := memory.New()
	return Repos{
		Users:         m.Users(),
		Categories:    m.Categories(),
		Products:      m.Products(),
		Orders:        m.Orders(),
		Refunds:       m.Refunds(),
		Notifications: m.Notifications(),
	}
}

func TestWireBuildsEveryService(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "seafood-shop", TTL: time.Hour}
	svc := Wire(memRepos(), nil, j, config.Shop{ShippingFee: 30000, CatalogCacheSec: 60}, zap.NewNop())

	assert.NotNil(t, svc.Auth)
	assert.NotNil(t, svc.Catalog)
	assert.NotNil(t, svc.Carts)
	assert.NotNil(t, svc.Orders)
	assert.NotNil(t, svc.Ratings)
	assert.NotNil(t, svc.Refunds)
	assert.NotNil(t, svc.Notifications)
	assert.NotNil(t, svc.Users)
	assert.NotNil(t, svc.Stats)

	ctx := context.Background()
	_, err := svc.Auth.Register(ctx, service.RegisterInput{Username: "lan", Email: "lan@example.com", Password: "matkhau1"})
	require.NoError(t, err)
	tok, err := svc.Auth.Login(ctx, service.LoginInput{Identifier: "lan", Password: "matkhau1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
}

func TestWireWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := Wire(memRepos(), cache.New(rdb), nil, config.Shop{CatalogCacheSec: 60}, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, svc.Catalog.EnsureCategories(ctx, []string{"Hải sản Tươi"}))

	types, err := svc.Catalog.ProductTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
	assert.NotEmpty(t, mr.Keys())
}
