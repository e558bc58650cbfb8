// Package orderflow 订单状态流转表。两个改状态接口都只认这一张表。
package orderflow

import (
	"seafood-shop/internal/domain"
)

// edge 的值：该迁移允许的角色集合
var edges = map[domain.OrderStatus]map[domain.OrderStatus][]domain.Role{
	domain.StatusPending: {
		domain.StatusProcessing: staff,
		domain.StatusCancelled:  adminOnly,
	},
	domain.StatusProcessing: {
		domain.StatusShipping: staff,
	},
	domain.StatusShipping: {
		domain.StatusCompleted: staff,
		domain.StatusCancelled: adminOnly,
	},
	domain.StatusCompleted: {
		domain.StatusReturned: adminOnly,
	},
}

var (
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleEmployee}
	adminOnly = []domain.Role{domain.RoleAdmin}
)

var labels = map[domain.OrderStatus]string{
	domain.StatusPending:    "Chờ xác nhận",
	domain.StatusProcessing: "Đang xử lý",
	domain.StatusShipping:   "Đang vận chuyển",
	domain.StatusCompleted:  "Hoàn thành",
	domain.StatusCancelled:  "Đã hủy",
	domain.StatusReturned:   "Đã hoàn trả",
}

// Check 判断 role 能否把订单从 from 改到 to
func Check(from, to domain.OrderStatus, role domain.Role) error {
	if !to.Valid() {
		return domain.InvalidArgument("invalid status %q", to)
	}
	if from == to {
		return domain.InvalidState("order is already %s", to)
	}
	roles, ok := edges[from][to]
	if !ok {
		return domain.InvalidState("cannot move order from %s to %s", from, to)
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return domain.Forbidden("role %s may not move order to %s", role, to)
}

// Next from 出发所有合法目标（不区分角色）
func Next(from domain.OrderStatus) []domain.OrderStatus {
	out := make([]domain.OrderStatus, 0, 2)
	for _, s := range domain.AllStatuses {
		if _, ok := edges[from][s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func Terminal(s domain.OrderStatus) bool { return len(edges[s]) == 0 }

// CustomerCancellable 客户自助取消只允许未发货前
func CustomerCancellable(s domain.OrderStatus) bool {
	return s == domain.StatusPending || s == domain.StatusProcessing
}

func Label(s domain.OrderStatus) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}
