package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// IsStaff admin 或 employee（后台可访问）
func (r Role) IsStaff() bool { return r == RoleAdmin || r == RoleEmployee }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:customer;index" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Address      string    `gorm:"size:255" json:"address"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	Bio          string    `gorm:"size:1000" json:"bio"`
	Note         string    `gorm:"size:1000" json:"note"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserFilter struct {
	Q            string // username / email（IncludePhone 时也匹配 phone）
	IncludePhone bool
	Role         Role
	ExcludeRole  Role
}

// UserRepository 查不到时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	FindByLogin(ctx context.Context, emailOrUsername string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role Role) (int64, error)
	IDsByRole(ctx context.Context, role Role) ([]string, error)
}
