package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seafood-shop/internal/service"
	"seafood-shop/internal/transport/http/ez"
)

// MountAuth /auth/register、/auth/login
func (s *Services) MountAuth(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.RegisterInput, service.UserSummary]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (service.UserSummary, error) {
			u, err := s.Auth.Register(c.Request.Context(), *in)
			if err != nil {
				return service.UserSummary{}, err
			}
			return service.UserSummary{UserID: u.ID, Username: u.Username, Role: u.Role, Avatar: u.Avatar}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.LoginInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.LoginResult, error) {
			return s.Auth.Login(c.Request.Context(), *in)
		},
	})
}
