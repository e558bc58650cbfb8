package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"seafood-shop/internal/domain"
)

type Statistics struct {
	TotalProducts  int64           `json:"totalProducts"`
	TotalCustomers int64           `json:"totalCustomers"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalEmployees int64           `json:"totalEmployees"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

type StatsService struct {
	products domain.ProductRepository
	users    domain.UserRepository
	orders   domain.OrderRepository
}

func NewStatsService(products domain.ProductRepository, users domain.UserRepository, orders domain.OrderRepository) *StatsService {
	return &StatsService{products: products, users: users, orders: orders}
}

// Overview 营收只算 completed 订单
func (s *StatsService) Overview(ctx context.Context) (*Statistics, error) {
	var st Statistics
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalProducts, err = s.products.Count(ctx)
		return
	})
	g.Go(func() (err error) {
		st.TotalCustomers, err = s.users.CountByRole(ctx, domain.RoleCustomer)
		return
	})
	g.Go(func() (err error) {
		st.TotalEmployees, err = s.users.CountByRole(ctx, domain.RoleEmployee)
		return
	})
	g.Go(func() (err error) {
		st.TotalOrders, err = s.orders.Count(ctx)
		return
	})
	g.Go(func() (err error) {
		st.TotalRevenue, err = s.orders.RevenueByStatus(ctx, domain.StatusCompleted)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
