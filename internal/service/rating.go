package service

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

const maxCommentLen = 500

type RatingService struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	log      *zap.Logger
}

func NewRatingService(products domain.ProductRepository, orders domain.OrderRepository, l *zap.Logger) *RatingService {
	return &RatingService{products: products, orders: orders, log: l.Named("rating")}
}

type RateInput struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// Rate 只有买过且订单已完成的客户能评价，每人每商品一次
func (s *RatingService) Rate(ctx context.Context, actor Actor, productID string, in RateInput) (*domain.Rating, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.Forbidden("only customers can rate products")
	}
	if in.Stars < 1 || in.Stars > 5 {
		return nil, domain.InvalidArgument("stars must be between 1 and 5")
	}
	if utf8.RuneCountInString(in.Comment) > maxCommentLen {
		return nil, domain.InvalidArgument("comment must be at most %d characters", maxCommentLen)
	}

	p, err := notFoundIfNil(s.products.FindByID(ctx, productID))
	if err != nil {
		return nil, err
	}
	bought, err := s.purchased(ctx, actor.UserID, p.ID)
	if err != nil {
		return nil, err
	}
	if !bought {
		return nil, domain.Forbidden("you can only rate products from your completed orders")
	}
	if p.RatedBy(actor.UserID) {
		return nil, domain.Conflict("you have already rated this product")
	}

	r := &domain.Rating{
		ID:                 utils.NewID(),
		ProductID:          p.ID,
		UserID:             actor.UserID,
		Stars:              in.Stars,
		Comment:            in.Comment,
		IsVerifiedPurchase: true,
		CreatedAt:          time.Now(),
	}
	// 唯一索引兜底并发重复提交
	if err := s.products.AddRating(ctx, r); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflict("you have already rated this product")
		}
		return nil, err
	}
	s.log.Info("product rated", zap.String("productId", p.ID), zap.String("userId", actor.UserID), zap.Int("stars", r.Stars))
	return r, nil
}

func (s *RatingService) purchased(ctx context.Context, userID, productID string) (bool, error) {
	orders, err := s.orders.List(ctx, domain.OrderFilter{CustomerID: userID, Status: domain.StatusCompleted})
	if err != nil {
		return false, err
	}
	for i := range orders {
		if orders[i].Contains(productID) {
			return true, nil
		}
	}
	return false, nil
}
