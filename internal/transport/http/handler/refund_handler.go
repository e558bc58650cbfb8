package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/transport/http/ez"
)

type completeIn struct {
	AdminNote string `json:"adminNote"`
}

// MountRefunds /refunds；路径里的 :id 在 bank-info 上是订单 id，其余是退款 id
func (s *Services) MountRefunds(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[domain.BankInfo, *domain.Refund]{
		Method: http.MethodPost,
		Path:   "/:id/bank-info",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.BankInfo) (*domain.Refund, error) {
			return s.Refunds.SubmitBankInfo(c.Request.Context(), actor(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[completeIn, *domain.Refund]{
		Method: http.MethodPost,
		Path:   "/:id/complete",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *completeIn) (*domain.Refund, error) {
			return s.Refunds.Complete(c.Request.Context(), actor(c), c.Param("id"), in.AdminNote)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *domain.Refund]{
		Method: http.MethodPost,
		Path:   "/:id/confirm",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (*domain.Refund, error) {
			return s.Refunds.Confirm(c.Request.Context(), actor(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[empty, []domain.Refund]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Refund, error) {
			return s.Refunds.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[empty, []domain.Refund]{
		Method: http.MethodGet,
		Path:   "/mine",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Refund, error) {
			return s.Refunds.Mine(c.Request.Context(), actor(c))
		},
	})
}
