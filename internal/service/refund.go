package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"seafood-shop/internal/domain"
	"seafood-shop/internal/notify"
	"seafood-shop/pkg/utils"
)

type RefundService struct {
	refunds  domain.RefundRepository
	orders   domain.OrderRepository
	notifier *notify.Notifier
	log      *zap.Logger
}

func NewRefundService(refunds domain.RefundRepository, orders domain.OrderRepository, n *notify.Notifier, l *zap.Logger) *RefundService {
	return &RefundService{refunds: refunds, orders: orders, notifier: n, log: l.Named("refund")}
}

func refundable(s domain.OrderStatus) bool {
	return s == domain.StatusCancelled || s == domain.StatusReturned
}

func shortCode(orderID string) string {
	return (&domain.Order{ID: orderID}).Code()
}

// SubmitBankInfo 首次提交创建 pending 退款，之后在 pending 期间可覆盖银行信息
func (s *RefundService) SubmitBankInfo(ctx context.Context, actor Actor, orderID string, in domain.BankInfo) (*domain.Refund, error) {
	in = domain.BankInfo{AccountNumber: trim(in.AccountNumber), BankName: trim(in.BankName), AccountHolder: trim(in.AccountHolder)}
	if in.AccountNumber == "" || in.BankName == "" || in.AccountHolder == "" {
		return nil, domain.InvalidArgument("accountNumber, bankName and accountHolder are required")
	}
	o, err := notFoundIfNil(s.orders.FindByID(ctx, orderID))
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(actor.UserID) {
		return nil, domain.Forbidden("this order does not belong to you")
	}
	if !refundable(o.Status) {
		return nil, domain.InvalidState("only cancelled or returned orders can be refunded")
	}

	rf, err := s.refunds.FindByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case rf == nil:
		rf = &domain.Refund{
			ID:       utils.NewID(),
			OrderID:  o.ID,
			UserID:   actor.UserID,
			Amount:   o.Total,
			BankInfo: in,
			Status:   domain.RefundPending,
		}
		if err := s.refunds.Create(ctx, rf); err != nil {
			return nil, err
		}
	case rf.Status != domain.RefundPending:
		return nil, domain.InvalidState("refund is already %s", rf.Status)
	default:
		rf.BankInfo = in
		if err := s.refunds.Update(ctx, rf); err != nil {
			return nil, err
		}
	}

	s.notifier.ToAdmins(ctx, notify.Event{
		Type:     domain.NotifyRefund,
		Message:  fmt.Sprintf("Yêu cầu hoàn tiền cho đơn hàng #%s đã có thông tin ngân hàng.", o.Code()),
		OrderID:  o.ID,
		RefundID: rf.ID,
	})
	return rf, nil
}

// Complete 管理员已转账
func (s *RefundService) Complete(ctx context.Context, actor Actor, refundID, note string) (*domain.Refund, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("admin only")
	}
	rf, err := notFoundIfNil(s.refunds.FindByID(ctx, refundID))
	if err != nil {
		return nil, err
	}
	if rf.Status != domain.RefundPending {
		return nil, domain.InvalidState("refund is already %s", rf.Status)
	}
	rf.Status = domain.RefundCompleted
	rf.AdminNote = note
	if err := s.refunds.Update(ctx, rf); err != nil {
		return nil, err
	}
	s.log.Info("refund completed", zap.String("refundId", rf.ID), zap.String("by", actor.UserID))

	s.notifier.ToUser(ctx, rf.UserID, notify.Event{
		Type:     domain.NotifyRefund,
		Message:  fmt.Sprintf("Yêu cầu hoàn tiền cho đơn hàng #%s đã được admin xác nhận hoàn tiền.", shortCode(rf.OrderID)),
		OrderID:  rf.OrderID,
		RefundID: rf.ID,
	})
	return rf, nil
}

// Confirm 客户确认收到退款
func (s *RefundService) Confirm(ctx context.Context, actor Actor, refundID string) (*domain.Refund, error) {
	rf, err := notFoundIfNil(s.refunds.FindByID(ctx, refundID))
	if err != nil {
		return nil, err
	}
	if rf.UserID != actor.UserID {
		return nil, domain.Forbidden("this refund does not belong to you")
	}
	if rf.Status != domain.RefundCompleted {
		return nil, domain.InvalidState("refund must be completed before it can be confirmed")
	}
	rf.Status = domain.RefundConfirmed
	if err := s.refunds.Update(ctx, rf); err != nil {
		return nil, err
	}

	s.notifier.ToAdmins(ctx, notify.Event{
		Type:     domain.NotifyRefund,
		Message:  fmt.Sprintf("Khách hàng đã xác nhận nhận tiền hoàn cho đơn hàng #%s.", shortCode(rf.OrderID)),
		OrderID:  rf.OrderID,
		RefundID: rf.ID,
	})
	return rf, nil
}

func (s *RefundService) List(ctx context.Context) ([]domain.Refund, error) {
	return s.nonNil(s.refunds.List(ctx, ""))
}

func (s *RefundService) Mine(ctx context.Context, actor Actor) ([]domain.Refund, error) {
	return s.nonNil(s.refunds.List(ctx, actor.UserID))
}

func (s *RefundService) nonNil(rs []domain.Refund, err error) ([]domain.Refund, error) {
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []domain.Refund{}
	}
	return rs, nil
}
