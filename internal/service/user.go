package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

type UserService struct {
	users  domain.UserRepository
	orders domain.OrderRepository
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, orders domain.OrderRepository, l *zap.Logger) *UserService {
	return &UserService{users: users, orders: orders, log: l.Named("user")}
}

type Profile struct {
	User   *domain.User   `json:"user"`
	Orders []domain.Order `json:"orders"`
}

func (s *UserService) Profile(ctx context.Context, actor Actor) (*Profile, error) {
	u, err := notFoundIfNil(s.users.FindByID(ctx, actor.UserID))
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, domain.OrderFilter{CustomerID: u.ID})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &Profile{User: u, Orders: orders}, nil
}

type ProfileInput struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Bio     *string `json:"bio"`
}

func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*domain.User, error) {
	u, err := notFoundIfNil(s.users.FindByID(ctx, actor.UserID))
	if err != nil {
		return nil, err
	}
	if err := s.setEmail(ctx, u, in.Email); err != nil {
		return nil, err
	}
	setStr(&u.Phone, in.Phone)
	setStr(&u.Address, in.Address)
	setStr(&u.Bio, in.Bio)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = trim(*v)
	}
}

func (s *UserService) setEmail(ctx context.Context, u *domain.User, email *string) error {
	if email == nil {
		return nil
	}
	e := normEmail(*email)
	if e == "" {
		return domain.InvalidArgument("email must not be empty")
	}
	if e == u.Email {
		return nil
	}
	if err := ensureFree(ctx, s.users, "", e, u.ID); err != nil {
		return err
	}
	u.Email = e
	return nil
}

func (s *UserService) setUsername(ctx context.Context, u *domain.User, name *string) error {
	if name == nil || trim(*name) == "" || trim(*name) == u.Username {
		return nil
	}
	n := trim(*name)
	if err := ensureFree(ctx, s.users, n, "", u.ID); err != nil {
		return err
	}
	u.Username = n
	return nil
}

/* ---------------- 后台：员工/用户 ---------------- */

// ListUsers 不含 admin；role 为 "" 或 "all" 不过滤
func (s *UserService) ListUsers(ctx context.Context, q, role string) ([]domain.User, error) {
	f := domain.UserFilter{Q: q, ExcludeRole: domain.RoleAdmin}
	if role != "" && role != "all" {
		f.Role = domain.Role(role)
	}
	return nonNilUsers(s.users.List(ctx, f))
}

func nonNilUsers(us []domain.User, err error) ([]domain.User, error) {
	if err != nil {
		return nil, err
	}
	if us == nil {
		us = []domain.User{}
	}
	return us, nil
}

type EmployeeInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *UserService) AddEmployee(ctx context.Context, in EmployeeInput) (*domain.User, error) {
	return s.createWithRole(ctx, in, domain.RoleEmployee)
}

// EnsureAdmin 命令行建管理员用
func (s *UserService) EnsureAdmin(ctx context.Context, in EmployeeInput) (*domain.User, error) {
	return s.createWithRole(ctx, in, domain.RoleAdmin)
}

func (s *UserService) createWithRole(ctx context.Context, in EmployeeInput, role domain.Role) (*domain.User, error) {
	username, email := trim(in.Username), normEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.InvalidArgument("username, email and password are required")
	}
	if !utils.StrongPassword(in.Password) {
		return nil, domain.InvalidArgument("password must be 6-64 characters with at least one letter and one digit")
	}
	if err := ensureFree(ctx, s.users, username, email, ""); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{ID: utils.NewID(), Username: username, Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("staff account created", zap.String("userId", u.ID), zap.String("role", string(role)))
	return u, nil
}

type UserUpdateInput struct {
	Username *string     `json:"username"`
	Email    *string     `json:"email"`
	Phone    *string     `json:"phone"`
	Address  *string     `json:"address"`
	Avatar   *string     `json:"avatar"`
	Role     domain.Role `json:"role"`
}

func (s *UserService) UpdateUser(ctx context.Context, id string, in UserUpdateInput) (*domain.User, error) {
	u, err := notFoundIfNil(s.users.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if in.Role != "" {
		if !in.Role.Valid() {
			return nil, domain.InvalidArgument("invalid role %q", in.Role)
		}
		if u.Role == domain.RoleAdmin && in.Role != domain.RoleAdmin {
			return nil, domain.Forbidden("admin accounts cannot be demoted")
		}
	}
	if err := s.setUsername(ctx, u, in.Username); err != nil {
		return nil, err
	}
	if err := s.setEmail(ctx, u, in.Email); err != nil {
		return nil, err
	}
	setStr(&u.Phone, in.Phone)
	setStr(&u.Address, in.Address)
	setStr(&u.Avatar, in.Avatar)
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	u, err := notFoundIfNil(s.users.FindByID(ctx, id))
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		return domain.Forbidden("admin accounts cannot be deleted")
	}
	return s.users.Delete(ctx, id)
}

/* ---------------- 后台：客户 ---------------- */

func (s *UserService) ListCustomers(ctx context.Context, q string) ([]domain.User, error) {
	return nonNilUsers(s.users.List(ctx, domain.UserFilter{Q: q, IncludePhone: true, Role: domain.RoleCustomer}))
}

type CustomerUpdateInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Note     *string `json:"note"`
}

// UpdateCustomer 不涉及角色
func (s *UserService) UpdateCustomer(ctx context.Context, id string, in CustomerUpdateInput) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != domain.RoleCustomer {
		return nil, domain.NotFound("customer not found")
	}
	if err := s.setUsername(ctx, u, in.Username); err != nil {
		return nil, err
	}
	if in.Email != nil && trim(*in.Email) != "" {
		if err := s.setEmail(ctx, u, in.Email); err != nil {
			return nil, err
		}
	}
	setStr(&u.Phone, in.Phone)
	setStr(&u.Address, in.Address)
	setStr(&u.Note, in.Note)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
