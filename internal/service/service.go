// Package service 业务用例层：handler 只做绑定和响应，规则都在这里。
package service

import (
	"strings"

	"seafood-shop/internal/domain"
)

// Actor 当前登录用户（来自 JWT claims）
type Actor struct {
	UserID   string
	Username string
	Role     domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

func trim(s string) string { return strings.TrimSpace(s) }

// notFoundIfNil 仓储约定查不到返回 (nil, nil)
func notFoundIfNil[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("%s not found", entityName(v))
	}
	return v, nil
}

func entityName(v any) string {
	switch v.(type) {
	case *domain.Product:
		return "product"
	case *domain.Order:
		return "order"
	case *domain.User:
		return "user"
	case *domain.Refund:
		return "refund"
	case *domain.Category:
		return "category"
	}
	return "record"
}
