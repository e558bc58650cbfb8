package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/ez"
)

type orderQuery struct {
	Status string `form:"status"`
	Q      string `form:"q"`
}

type userQuery struct {
	Q    string `form:"q"`
	Role string `form:"role"`
}

type ratingQuery struct {
	MinStars   string `form:"minStars"`
	IsVerified string `form:"isVerified"`
}

func (q ratingQuery) filter() (domain.RatingFilter, error) {
	var f domain.RatingFilter
	if q.MinStars != "" {
		n, err := strconv.Atoi(q.MinStars)
		if err != nil {
			return f, domain.InvalidArgument("minStars must be an integer")
		}
		f.MinStars = n
	}
	if q.IsVerified != "" {
		b, err := strconv.ParseBool(q.IsVerified)
		if err != nil {
			return f, domain.InvalidArgument("isVerified must be true or false")
		}
		f.IsVerified = &b
	}
	return f, nil
}

type statusIn struct {
	Status domain.OrderStatus `json:"status"`
}

// MountAdmin /admin 下所有接口；e 已挂 AuthJWT(admin, employee)，细分权限在 Roles
func (s *Services) MountAdmin(e ez.EZ) {
	s.mountAdminCatalog(e)
	s.mountAdminOrders(e)
	s.mountAdminUsers(e)

	ez.RegisterAction(e, ez.Action[empty, *service.Statistics]{
		Method: http.MethodGet,
		Path:   "/statistics",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) (*service.Statistics, error) {
			return s.Stats.Overview(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[empty, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Category, error) {
			return s.Catalog.ListCategories(c.Request.Context())
		},
	})
}

func (s *Services) mountAdminCatalog(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[productQuery, []service.ProductView]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, q *productQuery) ([]service.ProductView, error) {
			return s.Catalog.ListProducts(c.Request.Context(), q.filter())
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			return s.Catalog.CreateProduct(c.Request.Context(), actor(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *service.ProductDetail]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, _ *empty) (*service.ProductDetail, error) {
			return s.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			return s.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, idOut]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, s.Catalog.DeleteProduct(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, []string]{
		Method: http.MethodGet,
		Path:   "/product-types",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, _ *empty) ([]string, error) {
			return s.Catalog.ProductTypes(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[ratingQuery, *service.ProductRatings]{
		Method: http.MethodGet,
		Path:   "/products/:id/ratings",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, q *ratingQuery) (*service.ProductRatings, error) {
			f, err := q.filter()
			if err != nil {
				return nil, err
			}
			return s.Catalog.ListRatings(c.Request.Context(), c.Param("id"), f)
		},
	})

	// 与上面同一位置的通配符必须同名，这里 :id 即 productId
	ez.RegisterAction(e, ez.Action[empty, idOut]{
		Method: http.MethodDelete,
		Path:   "/products/:id/ratings/:ratingId",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) (idOut, error) {
			rid := c.Param("ratingId")
			return idOut{ID: rid}, s.Catalog.DeleteRating(c.Request.Context(), c.Param("id"), rid)
		},
	})
}

func (s *Services) mountAdminOrders(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[orderQuery, []service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, q *orderQuery) ([]service.OrderView, error) {
			st, err := service.ParseStatusFilter(q.Status)
			if err != nil {
				return nil, err
			}
			return s.Orders.List(c.Request.Context(), domain.OrderFilter{Status: st, Q: q.Q})
		},
	})

	ez.RegisterAction(e, ez.Action[service.AdminOrderInput, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.AdminOrderInput) (*domain.Order, error) {
			return s.Orders.AdminCreate(c.Request.Context(), actor(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, _ *empty) (*service.OrderView, error) {
			return s.Orders.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[service.AdminOrderPatch, *domain.Order]{
		Method: http.MethodPut,
		Path:   "/orders/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *service.AdminOrderPatch) (*domain.Order, error) {
			return s.Orders.AdminUpdate(c.Request.Context(), actor(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, *domain.Order]{
		Method: http.MethodPut,
		Path:   "/orders/:id/status",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Order, error) {
			return s.Orders.ChangeStatus(c.Request.Context(), actor(c), c.Param("id"), in.Status)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, idOut]{
		Method: http.MethodDelete,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, s.Orders.Delete(c.Request.Context(), id)
		},
	})
}

func (s *Services) mountAdminUsers(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[userQuery, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, q *userQuery) ([]domain.User, error) {
			return s.Users.ListUsers(c.Request.Context(), q.Q, q.Role)
		},
	})

	ez.RegisterAction(e, ez.Action[service.EmployeeInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/add-employee",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.EmployeeInput) (*domain.User, error) {
			return s.Users.AddEmployee(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.UserUpdateInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *service.UserUpdateInput) (*domain.User, error) {
			return s.Users.UpdateUser(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, idOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, s.Users.DeleteUser(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[userQuery, []domain.User]{
		Method: http.MethodGet,
		Path:   "/customers",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, q *userQuery) ([]domain.User, error) {
			return s.Users.ListCustomers(c.Request.Context(), q.Q)
		},
	})

	ez.RegisterAction(e, ez.Action[service.CustomerUpdateInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/customers/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  staff,
		Handler: func(c *gin.Context, in *service.CustomerUpdateInput) (*domain.User, error) {
			return s.Users.UpdateCustomer(c.Request.Context(), c.Param("id"), *in)
		},
	})
}
