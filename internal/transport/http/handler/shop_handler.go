package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/ez"
)

type productQuery struct {
	Q          string `form:"q"`
	CategoryID string `form:"categoryId"`
	Type       string `form:"type"`
}

func (q productQuery) filter() domain.ProductFilter {
	return domain.ProductFilter{Q: q.Q, CategoryID: q.CategoryID, Type: q.Type}
}

// MountShop 商品目录、购物车、订单公开页；e 需要挂 Session 中间件
func (s *Services) MountShop(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[empty, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Category, error) {
			return s.Catalog.ListCategories(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[productQuery, []service.ProductView]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *productQuery) ([]service.ProductView, error) {
			return s.Catalog.ListProducts(c.Request.Context(), q.filter())
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *service.ProductDetail]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*service.ProductDetail, error) {
			return s.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
		},
	})

	// 购物车
	ez.RegisterAction(e, ez.Action[empty, cart.View]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (cart.View, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return cart.View{}, err
			}
			return ct.Get(), nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.AddToCartInput, cart.View]{
		Method: http.MethodPost,
		Path:   "/cart",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AddToCartInput) (cart.View, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return cart.View{}, err
			}
			return s.Carts.Add(c.Request.Context(), ct, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.UpdateCartInput, cart.View]{
		Method: http.MethodPut,
		Path:   "/cart",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateCartInput) (cart.View, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return cart.View{}, err
			}
			return s.Carts.Update(ct, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, cart.View]{
		Method: http.MethodDelete,
		Path:   "/cart/:index",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (cart.View, error) {
			ct, err := sessionCart(c)
			if err != nil {
				return cart.View{}, err
			}
			i, err := intParam(c, "index")
			if err != nil {
				return cart.View{}, err
			}
			return s.Carts.Remove(ct, i)
		},
	})

	// 付款确认页，不要求登录
	ez.RegisterAction(e, ez.Action[empty, *service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *empty) (*service.OrderView, error) {
			return s.Orders.GetPublic(c.Request.Context(), c.Param("id"))
		},
	})
}
