package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/metrics"
	"seafood-shop/internal/domain"
	"seafood-shop/internal/notify"
	"seafood-shop/internal/orderflow"
	"seafood-shop/pkg/utils"
)

type OrderService struct {
	orders      domain.OrderRepository
	products    domain.ProductRepository
	users       domain.UserRepository
	notifier    *notify.Notifier
	shippingFee decimal.Decimal
	log         *zap.Logger
}

func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	n *notify.Notifier,
	shippingFee decimal.Decimal,
	l *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		users:       users,
		notifier:    n,
		shippingFee: shippingFee,
		log:         l.Named("order"),
	}
}

// CustomerRef 订单里展示的客户信息
type CustomerRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type OrderView struct {
	domain.Order
	Code     string       `json:"code"`
	Customer *CustomerRef `json:"customer"`
}

func (s *OrderService) views(ctx context.Context, list []domain.Order) ([]OrderView, error) {
	ids := make([]string, 0, len(list))
	for _, o := range list {
		if o.CustomerID != nil {
			ids = append(ids, *o.CustomerID)
		}
	}
	us, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.User, len(us))
	for _, u := range us {
		byID[u.ID] = u
	}
	out := make([]OrderView, 0, len(list))
	for _, o := range list {
		v := OrderView{Order: o, Code: o.Code()}
		if o.CustomerID != nil {
			if u, ok := byID[*o.CustomerID]; ok {
				v.Customer = &CustomerRef{ID: u.ID, Username: u.Username, Email: u.Email, Phone: u.Phone}
			}
		}
		if v.Items == nil {
			v.Items = []domain.OrderItem{}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *OrderService) view(ctx context.Context, o *domain.Order) (*OrderView, error) {
	vs, err := s.views(ctx, []domain.Order{*o})
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

/* ---------------- 下单 ---------------- */

type CheckoutInput struct {
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	SelectedItems cart.Mask            `json:"selectedItems"`
}

type CheckoutResult struct {
	OrderID       string               `json:"orderId"`
	Code          string               `json:"code"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Total         decimal.Decimal      `json:"total"`
	ShippingFee   decimal.Decimal      `json:"shippingFee"`
}

// Checkout 用购物车里冻结的价格下单；成功后只移除被勾选的行。
// 订单写入和购物车回写不在一个事务里。
func (s *OrderService) Checkout(ctx context.Context, actor Actor, c *cart.Cart, in CheckoutInput) (*CheckoutResult, error) {
	if c == nil || c.Len() == 0 {
		return nil, domain.InvalidArgument("cart is empty")
	}
	addr := domain.ShippingAddress{Name: trim(in.Name), Address: trim(in.Address), Phone: trim(in.Phone)}
	if !addr.Complete() || in.PaymentMethod == "" {
		return nil, domain.InvalidArgument("shipping name, phone, address and payment method are required")
	}
	if !in.PaymentMethod.Valid() {
		return nil, domain.InvalidArgument("unsupported payment method %q", in.PaymentMethod)
	}
	lines := c.Selected(in.SelectedItems)
	if len(lines) == 0 {
		return nil, domain.InvalidArgument("select at least one item")
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for i, l := range lines {
		if l.Product.ID == "" || !l.Quantity.IsPositive() {
			return nil, domain.InvalidArgument("cart item %d is invalid", i+1)
		}
		p, err := s.products.FindByID(ctx, l.Product.ID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.InvalidArgument("product %q is no longer available", l.Product.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID:    l.Product.ID,
			ProductName:  l.Product.Name,
			ProductImage: l.Product.Image,
			Variant:      l.Variant,
			Quantity:     l.Quantity,
		})
	}

	uid := actor.UserID
	o := &domain.Order{
		ID:              utils.NewID(),
		CustomerID:      &uid,
		Items:           items,
		ShippingFee:     s.shippingFee,
		DiscountAmount:  decimal.Zero,
		Total:           domain.ComputeTotal(items, s.shippingFee, decimal.Zero),
		ShippingAddress: addr,
		Status:          domain.StatusPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.InitialPaymentStatus(in.PaymentMethod),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	c.Drop(in.SelectedItems)

	metrics.OrdersCreated.WithLabelValues("checkout", string(o.PaymentMethod)).Inc()
	s.log.Info("order placed",
		zap.String("orderId", o.ID),
		zap.String("userId", uid),
		zap.Int("items", len(items)),
		zap.String("total", o.Total.String()),
	)
	return &CheckoutResult{
		OrderID:       o.ID,
		Code:          o.Code(),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total,
		ShippingFee:   o.ShippingFee,
	}, nil
}

// GetPublic 付款确认页用，不校验登录
func (s *OrderService) GetPublic(ctx context.Context, id string) (*OrderView, error) {
	return s.Get(ctx, id)
}

func (s *OrderService) ownedOrder(ctx context.Context, actor Actor, id string) (*domain.Order, error) {
	o, err := notFoundIfNil(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(actor.UserID) {
		return nil, domain.Forbidden("this order does not belong to you")
	}
	return o, nil
}

// ConfirmPayment 客户确认已转账；订单仍是 pending，等后台接单
func (s *OrderService) ConfirmPayment(ctx context.Context, actor Actor, id string) (*domain.Order, error) {
	o, err := s.ownedOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != domain.PaymentOnline {
		return nil, domain.InvalidState("order does not use online payment")
	}
	if o.Status != domain.StatusPending {
		return nil, domain.InvalidState("payment can only be confirmed while the order is pending")
	}
	now := time.Now()
	o.PaymentStatus = domain.PaymentConfirmed
	o.PaymentConfirmedAt = &now
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CancelByCustomer 发货前可取消，商品原样回到当前会话的购物车
func (s *OrderService) CancelByCustomer(ctx context.Context, actor Actor, id string, c *cart.Cart) (*domain.Order, error) {
	o, err := s.ownedOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !orderflow.CustomerCancellable(o.Status) {
		return nil, domain.InvalidState("order can only be cancelled while pending or processing")
	}
	from := o.Status
	o.Status = domain.StatusCancelled
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(from), string(o.Status)).Inc()

	if c != nil {
		lines := make([]cart.Line, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, cart.Line{
				Product:  cart.ProductRef{ID: it.ProductID, Name: it.ProductName, Image: it.ProductImage},
				Variant:  it.Variant,
				Quantity: it.Quantity,
			})
		}
		c.Restore(lines...)
	}
	s.log.Info("order cancelled by customer", zap.String("orderId", o.ID), zap.String("from", string(from)))
	return o, nil
}

/* ---------------- 后台 ---------------- */

// ParseStatusFilter "" 和 "all" 表示不过滤
func ParseStatusFilter(raw string) (domain.OrderStatus, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	st := domain.OrderStatus(raw)
	if !st.Valid() {
		return "", domain.InvalidArgument("invalid status %q", raw)
	}
	return st, nil
}

func (s *OrderService) List(ctx context.Context, f domain.OrderFilter) ([]OrderView, error) {
	list, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

func (s *OrderService) Get(ctx context.Context, id string) (*OrderView, error) {
	o, err := notFoundIfNil(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	return s.view(ctx, o)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := notFoundIfNil(s.orders.FindByID(ctx, id)); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// ChangeStatus 状态变更唯一入口：查表、落库、通知客户
func (s *OrderService) ChangeStatus(ctx context.Context, actor Actor, id string, to domain.OrderStatus) (*domain.Order, error) {
	o, err := notFoundIfNil(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, actor, o, to); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) transition(ctx context.Context, actor Actor, o *domain.Order, to domain.OrderStatus) error {
	if err := orderflow.Check(o.Status, to, actor.Role); err != nil {
		return err
	}
	from := o.Status
	o.Status = to
	if err := s.orders.Update(ctx, o); err != nil {
		return err
	}
	s.afterTransition(ctx, actor, o, from)
	return nil
}

func (s *OrderService) afterTransition(ctx context.Context, actor Actor, o *domain.Order, from domain.OrderStatus) {
	metrics.StatusTransitions.WithLabelValues(string(from), string(o.Status)).Inc()
	s.log.Info("order status changed",
		zap.String("orderId", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.String("by", actor.UserID),
	)
	if o.CustomerID != nil {
		s.notifier.ToUser(ctx, *o.CustomerID, notify.Event{
			Type:    domain.NotifyOrder,
			Message: StatusMessage(o),
			OrderID: o.ID,
		})
	}
}

func StatusMessage(o *domain.Order) string {
	return fmt.Sprintf("Đơn hàng #%s đã chuyển sang trạng thái \"%s\".", o.Code(), orderflow.Label(o.Status))
}

type ItemInput struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// buildItems 按当前目录重建快照
func (s *OrderService) buildItems(ctx context.Context, in []ItemInput) ([]domain.OrderItem, error) {
	if len(in) == 0 {
		return nil, domain.InvalidArgument("order must contain at least one item")
	}
	items := make([]domain.OrderItem, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || it.VariantID == "" {
			return nil, domain.InvalidArgument("productId and variantId are required for every item")
		}
		if it.Quantity.LessThan(domain.MinQuantity) {
			return nil, domain.InvalidArgument("quantity must be at least %s", domain.MinQuantity)
		}
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.InvalidArgument("product %s does not exist", it.ProductID)
		}
		v, ok := p.FindVariant(it.VariantID)
		if !ok {
			return nil, domain.InvalidArgument("variant %s does not exist on product %s", it.VariantID, p.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.Image,
			Variant:      v.Snapshot(),
			Quantity:     it.Quantity,
		})
	}
	return items, nil
}

func nonNegative(name string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if d.IsNegative() {
		return decimal.Zero, domain.InvalidArgument("%s must not be negative", name)
	}
	return *d, nil
}

type AdminOrderInput struct {
	CustomerID      string                  `json:"customerId"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
	Items           []ItemInput             `json:"items"`
	DiscountAmount  *decimal.Decimal        `json:"discountAmount"`
	ShippingFee     *decimal.Decimal        `json:"shippingFee"`
	PaymentMethod   domain.PaymentMethod    `json:"paymentMethod"`
	Status          domain.OrderStatus      `json:"status"`
	Note            string                  `json:"note"`
}

// AdminCreate 后台手工建单（电话单、散客）
func (s *OrderService) AdminCreate(ctx context.Context, actor Actor, in AdminOrderInput) (*domain.Order, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, domain.InvalidArgument("invalid status %q", status)
	}
	if actor.Role == domain.RoleEmployee && status != domain.StatusPending {
		return nil, domain.Forbidden("employees can only create pending orders")
	}
	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentCOD
	}
	if !method.Valid() {
		return nil, domain.InvalidArgument("unsupported payment method %q", method)
	}

	var customer *domain.User
	if in.CustomerID != "" {
		u, err := s.users.FindByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.InvalidArgument("customer %s does not exist", in.CustomerID)
		}
		customer = u
	}

	items, err := s.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	fee, err := nonNegative("shippingFee", in.ShippingFee)
	if err != nil {
		return nil, err
	}
	discount, err := nonNegative("discountAmount", in.DiscountAmount)
	if err != nil {
		return nil, err
	}

	var addr domain.ShippingAddress
	switch {
	case in.ShippingAddress != nil:
		addr = *in.ShippingAddress
	case customer != nil:
		addr = domain.ShippingAddress{Name: customer.Username, Phone: customer.Phone, Address: customer.Address}
	}

	by := actor.UserID
	o := &domain.Order{
		ID:              utils.NewID(),
		Items:           items,
		ShippingFee:     fee,
		DiscountAmount:  discount,
		Total:           domain.ComputeTotal(items, fee, discount),
		ShippingAddress: addr,
		Status:          status,
		PaymentMethod:   method,
		PaymentStatus:   domain.InitialPaymentStatus(method),
		CreatedBy:       &by,
		Note:            in.Note,
	}
	if customer != nil {
		o.CustomerID = &customer.ID
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrdersCreated.WithLabelValues("admin", string(method)).Inc()
	s.log.Info("order created by staff", zap.String("orderId", o.ID), zap.String("by", by))
	return o, nil
}

type AddressPatch struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (p *AddressPatch) apply(a *domain.ShippingAddress) {
	if p == nil {
		return
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
}

type AdminOrderPatch struct {
	Items           []ItemInput          `json:"items"`
	ShippingAddress *AddressPatch        `json:"shippingAddress"`
	DiscountAmount  *decimal.Decimal     `json:"discountAmount"`
	ShippingFee     *decimal.Decimal     `json:"shippingFee"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	Status          domain.OrderStatus   `json:"status"`
	Note            *string              `json:"note"`
}

func (p AdminOrderPatch) touchesMoreThanContact() bool {
	return len(p.Items) > 0 || p.DiscountAmount != nil || p.ShippingFee != nil || p.PaymentMethod != "" || p.Status != ""
}

// AdminUpdate 员工改非 pending 订单只能动收货信息和备注。
// 状态变更走与 ChangeStatus 相同的 orderflow.Check；唯一区别是 status 等于当前状态时
// 视为表单回传、不做校验也不发通知，而 ChangeStatus 对同状态返回 InvalidState。
func (s *OrderService) AdminUpdate(ctx context.Context, actor Actor, id string, in AdminOrderPatch) (*domain.Order, error) {
	o, err := notFoundIfNil(s.orders.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleEmployee && o.Status != domain.StatusPending {
		if in.touchesMoreThanContact() {
			return nil, domain.Forbidden("employees can only edit shipping address and note once an order is confirmed")
		}
		in.ShippingAddress.apply(&o.ShippingAddress)
		if in.Note != nil {
			o.Note = *in.Note
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	}

	if len(in.Items) > 0 {
		items, err := s.buildItems(ctx, in.Items)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	if in.ShippingFee != nil {
		if o.ShippingFee, err = nonNegative("shippingFee", in.ShippingFee); err != nil {
			return nil, err
		}
	}
	if in.DiscountAmount != nil {
		if o.DiscountAmount, err = nonNegative("discountAmount", in.DiscountAmount); err != nil {
			return nil, err
		}
	}
	o.Total = domain.ComputeTotal(o.Items, o.ShippingFee, o.DiscountAmount)

	in.ShippingAddress.apply(&o.ShippingAddress)
	if in.PaymentMethod != "" {
		if !in.PaymentMethod.Valid() {
			return nil, domain.InvalidArgument("unsupported payment method %q", in.PaymentMethod)
		}
		o.PaymentMethod = in.PaymentMethod
	}
	if in.Note != nil {
		o.Note = *in.Note
	}

	// 表单回传当前状态时不算变更
	from := o.Status
	if in.Status != "" && in.Status != from {
		if err := orderflow.Check(from, in.Status, actor.Role); err != nil {
			return nil, err
		}
		o.Status = in.Status
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	if o.Status != from {
		s.afterTransition(ctx, actor, o, from)
	}
	return o, nil
}
