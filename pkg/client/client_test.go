package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seafood-shop/internal/app"
	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/core/config"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/repo/memory"
	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/router"
	"seafood-shop/pkg/client"
)

func newServer(t *testing.T) (*httptest.Server, *domain.Product) {
	t.Helper()
	m := memory.New()
	cfg := &config.Config{
		App:     config.App{Env: "test"},
		Session: config.Session{CookieName: "shop.sid", MaxAgeHours: 1},
		Shop:    config.Shop{ShippingFee: 30000, CatalogCacheSec: 60},
		Limits: config.Limits{
			RPS: 1000, Burst: 1000, PerIPRPS: 1000, PerIPBurst: 1000,
			Concurrency: 100, MaxBodyMB: 1, TimeoutSec: 5,
		},
	}
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "seafood-shop", TTL: time.Hour}
	svc := app.Wire(app.Repos{
		Users:         m.Users(),
		Categories:    m.Categories(),
		Products:      m.Products(),
		Orders:        m.Orders(),
		Refunds:       m.Refunds(),
		Notifications: m.Notifications(),
	}, nil, j, cfg.Shop, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, svc.Catalog.EnsureCategories(ctx, []string{"Hải sản Tươi"}))
	cs, err := svc.Catalog.ListCategories(ctx)
	require.NoError(t, err)
	p, err := svc.Catalog.CreateProduct(ctx, service.Actor{}, service.ProductInput{
		Name: "Ghẹ xanh", CategoryID: cs[0].ID, Type: "ghẹ",
		Variants: []service.VariantInput{{Name: "Loại 1", Price: domain.Money(100000), Unit: "kg"}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router.NewAPIEngine(router.Deps{
		Config: cfg, Log: zap.NewNop(), JWT: j, Carts: cart.NewMemoryStore(), Services: svc,
	}))
	t.Cleanup(srv.Close)
	return srv, p
}

func TestShoppingFlow(t *testing.T) {
	srv, p := newServer(t)
	ctx := context.Background()
	c, err := client.New(srv.URL + "/api")
	require.NoError(t, err)

	ps, err := c.Products(ctx, domain.ProductFilter{Type: "ghẹ"})
	require.NoError(t, err)
	require.Len(t, ps, 1)

	view, err := c.AddToCart(ctx, service.AddToCartInput{ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: domain.Money(2)})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(domain.Money(200000)))

	// 同一会话 cookie 保留购物车
	view, err = c.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	_, err = c.Checkout(ctx, service.CheckoutInput{Name: "Lan", Phone: "0901", Address: "1 Lê Lợi", PaymentMethod: domain.PaymentCOD})
	assert.True(t, client.IsCode(err, http.StatusUnauthorized))

	_, err = c.Register(ctx, service.RegisterInput{Username: "lan", Email: "lan@example.com", Password: "matkhau1"})
	require.NoError(t, err)
	res, err := c.Login(ctx, "lan@example.com", "matkhau1")
	require.NoError(t, err)
	assert.Equal(t, res.Token, c.Token())

	out, err := c.Checkout(ctx, service.CheckoutInput{Name: "Lan", Phone: "0901", Address: "1 Lê Lợi", PaymentMethod: domain.PaymentCOD})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(domain.Money(230000)))

	o, err := c.Order(ctx, out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, o.Status)

	require.NoError(t, c.CancelOrder(ctx, out.OrderID))
	view, err = c.Cart(ctx)
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(domain.Money(200000)))
}

func TestAPIErrors(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()
	c, err := client.New(srv.URL + "/api")
	require.NoError(t, err)

	_, err = c.Product(ctx, "missing")
	assert.True(t, client.IsCode(err, http.StatusNotFound))

	_, err = c.Login(ctx, "nobody", "matkhau1")
	assert.True(t, client.IsCode(err, http.StatusUnauthorized))
	assert.Empty(t, c.Token())

	_, err = c.RemoveFromCart(ctx, 0)
	var ae *client.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Code)
}
