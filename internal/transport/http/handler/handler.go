// Package handler 各路由组的 Action 注册；业务规则都在 service 层。
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
	mdw "seafood-shop/internal/transport/http/middleware"
)

type Services struct {
	Auth          *service.AuthService
	Catalog       *service.CatalogService
	Carts         *service.CartService
	Orders        *service.OrderService
	Ratings       *service.RatingService
	Refunds       *service.RefundService
	Notifications *service.NotificationService
	Users         *service.UserService
	Stats         *service.StatsService
}

var (
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleEmployee}
	adminOnly = []domain.Role{domain.RoleAdmin}
)

type empty struct{}

func actor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:   c.GetString(mdw.KeyUserID),
		Username: c.GetString(mdw.KeyUsername),
		Role:     domain.Role(c.GetString(mdw.KeyRole)),
	}
}

func sessionCart(c *gin.Context) (*cart.Cart, error) {
	ct := mdw.CartFrom(c)
	if ct == nil {
		return nil, domain.E(domain.KindInternal, "session middleware not installed")
	}
	return ct, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, domain.InvalidArgument("%s must be an integer", name)
	}
	return v, nil
}

type idOut struct {
	ID string `json:"id"`
}

type countOut struct {
	Count int64 `json:"count"`
}
