package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotifyOrder  NotificationType = "order"
	NotifyRefund NotificationType = "refund"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID    string           `gorm:"size:36;index;not null" json:"userId" bson:"user_id"`
	Type      NotificationType `gorm:"size:16" json:"type" bson:"type"`
	Message   string           `gorm:"size:1000" json:"message" bson:"message"`
	OrderID   string           `gorm:"size:36" json:"orderId,omitempty" bson:"order_id,omitempty"`
	RefundID  string           `gorm:"size:36" json:"refundId,omitempty" bson:"refund_id,omitempty"`
	IsRead    bool             `gorm:"index" json:"isRead" bson:"is_read"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt" bson:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationStore 通知流水；每条都有明确收件人
type NotificationStore interface {
	Insert(ctx context.Context, ns ...*Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead 不属于该用户时返回 (nil, nil)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}
