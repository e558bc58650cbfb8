package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/transport/http/ez"
)

// MountNotification 当前登录用户自己的通知
func (s *Services) MountNotification(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[empty, []domain.Notification]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) ([]domain.Notification, error) {
			return s.Notifications.List(c.Request.Context(), actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[empty, countOut]{
		Method: http.MethodGet,
		Path:   "/unread-count",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (countOut, error) {
			n, err := s.Notifications.UnreadCount(c.Request.Context(), actor(c))
			return countOut{Count: n}, err
		},
	})

	ez.RegisterAction(e, ez.Action[empty, countOut]{
		Method: http.MethodPost,
		Path:   "/mark-all-read",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (countOut, error) {
			n, err := s.Notifications.MarkAllRead(c.Request.Context(), actor(c))
			return countOut{Count: n}, err
		},
	})

	ez.RegisterAction(e, ez.Action[empty, *domain.Notification]{
		Method: http.MethodPost,
		Path:   "/:id/read",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (*domain.Notification, error) {
			return s.Notifications.MarkRead(c.Request.Context(), actor(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[empty, idOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (idOut, error) {
			id := c.Param("id")
			return idOut{ID: id}, s.Notifications.Delete(c.Request.Context(), actor(c), id)
		},
	})

	ez.RegisterAction(e, ez.Action[empty, countOut]{
		Method: http.MethodDelete,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *empty) (countOut, error) {
			n, err := s.Notifications.DeleteAll(c.Request.Context(), actor(c))
			return countOut{Count: n}, err
		},
	})
}
