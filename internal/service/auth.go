package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"seafood-shop/internal/core/auth"
	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, j *auth.JWTer, l *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: j, log: l.Named("auth")}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.InvalidArgument("email and password are required")
	}
	if !utils.StrongPassword(in.Password) {
		return nil, domain.InvalidArgument("password must be 6-64 characters with at least one letter and one digit")
	}
	username := trim(in.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if err := ensureFree(ctx, s.users, username, email, ""); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Phone:        trim(in.Phone),
		Address:      trim(in.Address),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("userId", u.ID), zap.String("username", u.Username))
	return u, nil
}

// ensureFree username/email 未被 selfID 以外的用户占用
func ensureFree(ctx context.Context, users domain.UserRepository, username, email, selfID string) error {
	if username != "" {
		u, err := users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return domain.Conflict("username already exists")
		}
	}
	if email != "" {
		u, err := users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return domain.Conflict("email already exists")
		}
	}
	return nil
}

type LoginInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// Key identifier > email > username
func (in LoginInput) Key() string {
	for _, k := range []string{in.Identifier, in.Email, in.Username} {
		if k = trim(k); k != "" {
			return k
		}
	}
	return ""
}

type UserSummary struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Avatar   string      `json:"avatar"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	key := in.Key()
	if key == "" || in.Password == "" {
		return nil, domain.InvalidArgument("missing login credentials")
	}
	u, err := s.users.FindByLogin(ctx, key)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Unauthenticated("wrong account or password")
	}
	tok, err := s.jwt.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{
		Token: tok,
		User:  UserSummary{UserID: u.ID, Username: u.Username, Role: u.Role, Avatar: u.Avatar},
	}, nil
}
