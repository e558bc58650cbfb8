package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/ez"
)

// MountCustomer 需要登录的 /shop 接口；e 同时挂 Session 和 AuthJWT
func (s *Services) MountCustomer(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.CheckoutInput, *service.CheckoutResult]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CheckoutInput) (*service.CheckoutResult, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return nil, err
			}
			return s.Orders.Checkout(c.Request.Context(), actor(c), ct, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders/:id/confirm-payment",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (*domain.Order, error) {
			return s.Orders.ConfirmPayment(c.Request.Context(), actor(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders/:id/cancel",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (*domain.Order, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return nil, err
			}
			return s.Orders.CancelByCustomer(c.Request.Context(), actor(c), c.Param("id"), ct)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (*service.Profile, error) {
			return s.Users.Profile(c.Request.Context(), actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProfileInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.User, error) {
			return s.Users.UpdateProfile(c.Request.Context(), actor(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.RateInput, *domain.Rating]{
		Method: http.MethodPost,
		Path:   "/products/:id/rate",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleCustomer},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RateInput) (*domain.Rating, error) {
			return s.Ratings.Rate(c.Request.Context(), actor(c), c.Param("id"), *in)
		},
	})
}
