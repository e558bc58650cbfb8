package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/notify"
	"seafood-shop/internal/repo/memory"
)

type env struct {
	ctx      context.Context
	mem      *memory.Store
	auth     *AuthService
	catalog  *CatalogService
	carts    *CartService
	orders   *OrderService
	ratings  *RatingService
	refunds  *RefundService
	feed     *NotificationService
	users    *UserService
	stats    *StatsService
	admin    Actor
	employee Actor
	customer Actor
	category domain.Category
	product  *domain.Product // 单规格 100000/kg
}

func newEnv(t *testing.T) *env {
	t.Helper()
	l := zap.NewNop()
	mem := memory.New()
	e := &env{ctx: context.Background(), mem: mem}

	n := notify.New(mem.Notifications(), mem.Users(), l)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "seafood-shop", TTL: time.Hour}
	e.auth = NewAuthService(mem.Users(), jwter, l)
	e.catalog = NewCatalogService(mem.Categories(), mem.Products(), mem.Users(), nil, time.Minute, l)
	e.carts = NewCartService(e.catalog)
	e.orders = NewOrderService(mem.Orders(), mem.Products(), mem.Users(), n, domain.Money(30000), l)
	e.ratings = NewRatingService(mem.Products(), mem.Orders(), l)
	e.refunds = NewRefundService(mem.Refunds(), mem.Orders(), n, l)
	e.feed = NewNotificationService(mem.Notifications())
	e.users = NewUserService(mem.Users(), mem.Orders(), l)
	e.stats = NewStatsService(mem.Products(), mem.Users(), mem.Orders())

	e.admin = e.mkUser(t, "admin", domain.RoleAdmin)
	e.employee = e.mkUser(t, "nhanvien", domain.RoleEmployee)
	e.customer = e.mkUser(t, "khach", domain.RoleCustomer)

	require.NoError(t, e.catalog.EnsureCategories(e.ctx, []string{"Hải sản Tươi", "Hải sản Khô"}))
	cs, err := e.catalog.ListCategories(e.ctx)
	require.NoError(t, err)
	e.category = cs[0]

	e.product, err = e.catalog.CreateProduct(e.ctx, e.admin, ProductInput{
		Name:       "Tôm sú",
		CategoryID: e.category.ID,
		Type:       "tôm",
		Variants:   []VariantInput{{Name: "Loại 1", Price: domain.Money(100000), Unit: "kg"}},
	})
	require.NoError(t, err)
	return e
}

func (e *env) mkUser(t *testing.T, name string, role domain.Role) Actor {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@shop.vn", Role: role}
	require.NoError(t, e.mem.Users().Create(e.ctx, u))
	return Actor{UserID: u.ID, Username: u.Username, Role: role}
}

// cartWith 购物车里放入 product 的第一个规格
func (e *env) cartWith(t *testing.T, p *domain.Product, qty string) *cart.Cart {
	t.Helper()
	c := cart.New()
	e.addTo(t, c, p, qty)
	return c
}

func (e *env) addTo(t *testing.T, c *cart.Cart, p *domain.Product, qty string) {
	t.Helper()
	_, err := e.carts.Add(e.ctx, c, AddToCartInput{ProductID: p.ID, VariantID: p.Variants[0].ID, Quantity: dec(qty)})
	require.NoError(t, err)
}

func (e *env) placeOrder(t *testing.T, method domain.PaymentMethod) *domain.Order {
	t.Helper()
	res, err := e.orders.Checkout(e.ctx, e.customer, e.cartWith(t, e.product, "2"), CheckoutInput{
		Name: "Lan", Phone: "0901234567", Address: "1 Lê Lợi", PaymentMethod: method,
	})
	require.NoError(t, err)
	o, err := e.mem.Orders().FindByID(e.ctx, res.OrderID)
	require.NoError(t, err)
	return o
}

// setStatus 绕过流转表直接改状态，准备测试数据用
func (e *env) setStatus(t *testing.T, o *domain.Order, st domain.OrderStatus) {
	t.Helper()
	o.Status = st
	require.NoError(t, e.mem.Orders().Update(e.ctx, o))
}

func (e *env) product2(t *testing.T, name string, price int64) *domain.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(e.ctx, e.admin, ProductInput{
		Name:       name,
		CategoryID: e.category.ID,
		Variants:   []VariantInput{{Name: "1kg", Price: domain.Money(price)}},
	})
	require.NoError(t, err)
	return p
}
