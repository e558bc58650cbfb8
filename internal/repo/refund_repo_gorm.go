package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"seafood-shop/internal/domain"
)

type RefundRepo struct{ db *gorm.DB }

func NewRefundRepo(db *gorm.DB) *RefundRepo { return &RefundRepo{db: db} }

var _ domain.RefundRepository = (*RefundRepo)(nil)

func (r *RefundRepo) Create(ctx context.Context, rf *domain.Refund) error {
	return wrapDup(r.db.WithContext(ctx).Create(rf).Error)
}

func (r *RefundRepo) first(ctx context.Context, query string, args ...any) (*domain.Refund, error) {
	var rf domain.Refund
	err := r.db.WithContext(ctx).Where(query, args...).First(&rf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *RefundRepo) FindByID(ctx context.Context, id string) (*domain.Refund, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *RefundRepo) FindByOrder(ctx context.Context, orderID string) (*domain.Refund, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *RefundRepo) List(ctx context.Context, userID string) ([]domain.Refund, error) {
	q := r.db.WithContext(ctx).Model(&domain.Refund{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rs []domain.Refund
	err := q.Order("created_at DESC").Find(&rs).Error
	return rs, err
}

func (r *RefundRepo) Update(ctx context.Context, rf *domain.Refund) error {
	return r.db.WithContext(ctx).Save(rf).Error
}
