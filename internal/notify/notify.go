// Package notify 写站内通知。写入失败只记日志，不影响触发它的业务操作。
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"seafood-shop/internal/core/metrics"
	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

// Event 一条待发送的通知内容
type Event struct {
	Type     domain.NotificationType
	Message  string
	OrderID  string
	RefundID string
}

type Notifier struct {
	store domain.NotificationStore
	users domain.UserRepository
	log   *zap.Logger
}

func New(store domain.NotificationStore, users domain.UserRepository, l *zap.Logger) *Notifier {
	if l == nil {
		l = zap.NewNop()
	}
	return &Notifier{store: store, users: users, log: l.Named("notify")}
}

func (n *Notifier) Store() domain.NotificationStore { return n.store }

// ToUser userID 为空（散客订单）时什么也不做
func (n *Notifier) ToUser(ctx context.Context, userID string, ev Event) {
	if userID == "" {
		return
	}
	n.insert(ctx, ev, []string{userID})
}

// ToAdmins 发给当前所有 admin，每人一条
func (n *Notifier) ToAdmins(ctx context.Context, ev Event) {
	ids, err := n.users.IDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		n.log.Warn("resolve admins failed", zap.Error(err), zap.String("type", string(ev.Type)))
		metrics.NotificationsSent.WithLabelValues(string(ev.Type), "error").Inc()
		return
	}
	if len(ids) == 0 {
		n.log.Debug("no admin to notify", zap.String("type", string(ev.Type)))
		return
	}
	n.insert(ctx, ev, ids)
}

func (n *Notifier) insert(ctx context.Context, ev Event, recipients []string) {
	now := time.Now()
	batch := make([]*domain.Notification, 0, len(recipients))
	for _, uid := range recipients {
		batch = append(batch, &domain.Notification{
			ID:        utils.NewID(),
			UserID:    uid,
			Type:      ev.Type,
			Message:   ev.Message,
			OrderID:   ev.OrderID,
			RefundID:  ev.RefundID,
			CreatedAt: now,
		})
	}
	if err := n.store.Insert(ctx, batch...); err != nil {
		n.log.Warn("insert notification failed",
			zap.Error(err),
			zap.String("type", string(ev.Type)),
			zap.Int("recipients", len(recipients)),
		)
		metrics.NotificationsSent.WithLabelValues(string(ev.Type), "error").Add(float64(len(recipients)))
		return
	}
	metrics.NotificationsSent.WithLabelValues(string(ev.Type), "ok").Add(float64(len(recipients)))
}
