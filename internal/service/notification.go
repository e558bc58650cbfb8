package service

import (
	"context"

	"seafood-shop/internal/domain"
)

// NotificationService 当前用户的通知流
type NotificationService struct {
	store domain.NotificationStore
}

func NewNotificationService(store domain.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]domain.Notification, error) {
	ns, err := s.store.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	return ns, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor Actor) (int64, error) {
	return s.store.CountUnread(ctx, actor.UserID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) (*domain.Notification, error) {
	n, err := s.store.MarkRead(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.NotFound("notification not found")
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	return s.store.MarkAllRead(ctx, actor.UserID)
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	ok, err := s.store.Delete(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, actor Actor) (int64, error) {
	return s.store.DeleteAll(ctx, actor.UserID)
}
