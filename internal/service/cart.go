package service

import (
	"context"

	"github.com/shopspring/decimal"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/metrics"
	"seafood-shop/internal/domain"
)

// CartService 购物车本身在 session 里，这里只负责按目录解析商品
type CartService struct {
	catalog *CatalogService
}

func NewCartService(catalog *CatalogService) *CartService { return &CartService{catalog: catalog} }

type AddToCartInput struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (s *CartService) Add(ctx context.Context, h cart.Holder, in AddToCartInput) (cart.View, error) {
	line, err := s.catalog.ResolveLine(ctx, in.ProductID, in.VariantID, in.Quantity)
	if err != nil {
		return cart.View{}, err
	}
	if err := h.Add(line); err != nil {
		return cart.View{}, err
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return h.Get(), nil
}

// UpdateCartInput 两个字段都必须显式给出；缺省的 0 会误删第一行
type UpdateCartInput struct {
	ItemIndex *int             `json:"itemIndex"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

func (s *CartService) Update(h cart.Holder, in UpdateCartInput) (cart.View, error) {
	if in.ItemIndex == nil || in.Quantity == nil {
		return cart.View{}, domain.InvalidArgument("itemIndex and quantity are required")
	}
	if err := h.Update(*in.ItemIndex, *in.Quantity); err != nil {
		return cart.View{}, err
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	return h.Get(), nil
}

func (s *CartService) Remove(h cart.Holder, index int) (cart.View, error) {
	if err := h.Remove(index); err != nil {
		return cart.View{}, err
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return h.Get(), nil
}
