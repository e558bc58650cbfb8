package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
)

func TestCheckoutTotals(t *testing.T) {
	e := newEnv(t)

	cod := e.placeOrder(t, domain.PaymentCOD)
	assert.True(t, cod.Total.Equal(dec("230000")), cod.Total.String())
	assert.True(t, cod.ShippingFee.Equal(dec("30000")))
	assert.Equal(t, domain.StatusPending, cod.Status)
	assert.Equal(t, domain.PaymentConfirmed, cod.PaymentStatus)
	require.NotNil(t, cod.CustomerID)
	assert.Equal(t, e.customer.UserID, *cod.CustomerID)
	require.Len(t, cod.Items, 1)
	assert.Equal(t, "Tôm sú", cod.Items[0].ProductName)

	online := e.placeOrder(t, domain.PaymentOnline)
	assert.Equal(t, domain.PaymentUnpaid, online.PaymentStatus)
}

func TestCheckoutRejects(t *testing.T) {
	e := newEnv(t)
	good := CheckoutInput{Name: "Lan", Phone: "0901", Address: "1 Lê Lợi", PaymentMethod: domain.PaymentCOD}

	_, err := e.orders.Checkout(e.ctx, e.customer, cart.New(), good)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))

	c := e.cartWith(t, e.product, "1")
	bad := good
	bad.Phone = " "
	_, err = e.orders.Checkout(e.ctx, e.customer, c, bad)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))

	bad = good
	bad.PaymentMethod = "Card"
	_, err = e.orders.Checkout(e.ctx, e.customer, c, bad)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))

	none := good
	none.SelectedItems = cart.Mask{false}
	_, err = e.orders.Checkout(e.ctx, e.customer, c, none)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, e.catalog.DeleteProduct(e.ctx, e.product.ID))
	_, err = e.orders.Checkout(e.ctx, e.customer, c, good)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))
	assert.Contains(t, err.Error(), "Tôm sú")

	n, _ := e.mem.Orders().Count(e.ctx)
	assert.Zero(t, n)
}

func TestCheckoutSelectedLinesOnly(t *testing.T) {
	e := newEnv(t)
	muc := e.product2(t, "Mực", 200000)
	c := e.cartWith(t, e.product, "1")
	e.addTo(t, c, muc, "0.5")

	res, err := e.orders.Checkout(e.ctx, e.customer, c, CheckoutInput{
		Name: "Lan", Phone: "0901", Address: "1 Lê Lợi", PaymentMethod: domain.PaymentCOD,
		SelectedItems: cart.Mask{false, true},
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(dec("130000")))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, e.product.ID, c.Items[0].Product.ID)
	assert.True(t, c.Dirty())
}

func TestCheckoutUsesFrozenPrice(t *testing.T) {
	e := newEnv(t)
	c := e.cartWith(t, e.product, "1")

	_, err := e.catalog.UpdateProduct(e.ctx, e.product.ID, ProductInput{
		Name: "Tôm sú", CategoryID: e.category.ID,
		Variants: []VariantInput{{ID: e.product.Variants[0].ID, Name: "Loại 1", Price: dec("150000")}},
	})
	require.NoError(t, err)

	res, err := e.orders.Checkout(e.ctx, e.customer, c, CheckoutInput{
		Name: "Lan", Phone: "0901", Address: "1 Lê Lợi", PaymentMethod: domain.PaymentCOD,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(dec("130000")))
	assert.Zero(t, c.Len())
}

func TestChangeStatusTable(t *testing.T) {
	cases := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		role domain.Role
		kind domain.ErrKind // KindInternal 表示成功
	}{
		{domain.StatusPending, domain.StatusProcessing, domain.RoleEmployee, domain.KindInternal},
		{domain.StatusPending, domain.StatusCancelled, domain.RoleAdmin, domain.KindInternal},
		{domain.StatusPending, domain.StatusCancelled, domain.RoleEmployee, domain.KindForbidden},
		{domain.StatusPending, domain.StatusShipping, domain.RoleAdmin, domain.KindInvalidState},
		{domain.StatusProcessing, domain.StatusShipping, domain.RoleEmployee, domain.KindInternal},
		{domain.StatusShipping, domain.StatusCompleted, domain.RoleEmployee, domain.KindInternal},
		{domain.StatusShipping, domain.StatusCancelled, domain.RoleEmployee, domain.KindForbidden},
		{domain.StatusCompleted, domain.StatusReturned, domain.RoleAdmin, domain.KindInternal},
		{domain.StatusCompleted, domain.StatusReturned, domain.RoleEmployee, domain.KindForbidden},
		{domain.StatusCancelled, domain.StatusPending, domain.RoleAdmin, domain.KindInvalidState},
		{domain.StatusPending, "lost", domain.RoleAdmin, domain.KindInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s->%s/%s", tc.from, tc.to, tc.role), func(t *testing.T) {
			e := newEnv(t)
			o := e.placeOrder(t, domain.PaymentCOD)
			e.setStatus(t, o, tc.from)
			actor := e.admin
			if tc.role == domain.RoleEmployee {
				actor = e.employee
			}

			got, err := e.orders.ChangeStatus(e.ctx, actor, o.ID, tc.to)
			stored, _ := e.mem.Orders().FindByID(e.ctx, o.ID)
			feed, _ := e.feed.List(e.ctx, e.customer)
			if tc.kind == domain.KindInternal {
				require.NoError(t, err)
				assert.Equal(t, tc.to, got.Status)
				assert.Equal(t, tc.to, stored.Status)
				require.Len(t, feed, 1)
				assert.Equal(t, StatusMessage(stored), feed[0].Message)
				assert.Equal(t, o.ID, feed[0].OrderID)
				return
			}
			assert.Equal(t, tc.kind, kindOf(err))
			assert.Equal(t, tc.from, stored.Status)
			assert.Empty(t, feed)
		})
	}
}

func TestStatusMessage(t *testing.T) {
	o := &domain.Order{ID: "0f8c2d1e-aaaa-bbbb-cccc-1234abcd5678", Status: domain.StatusShipping}
	assert.Equal(t, `Đơn hàng #ABCD5678 đã chuyển sang trạng thái "Đang vận chuyển".`, StatusMessage(o))
}

func TestChangeStatusMissingOrder(t *testing.T) {
	e := newEnv(t)
	_, err := e.orders.ChangeStatus(e.ctx, e.admin, "missing", domain.StatusProcessing)
	assert.Equal(t, domain.KindNotFound, kindOf(err))
}

func TestCancelByCustomerRestoresCart(t *testing.T) {
	e := newEnv(t)
	muc := e.product2(t, "Mực", 200000)
	o := e.placeOrder(t, domain.PaymentCOD)
	c := e.cartWith(t, muc, "1")

	got, err := e.orders.CancelByCustomer(e.ctx, e.customer, o.ID, c)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, e.product.ID, c.Items[1].Product.ID)
	assert.True(t, c.Items[1].Quantity.Equal(dec("2")))
	assert.True(t, c.Total.Equal(dec("400000")), c.Total.String())

	_, err = e.orders.CancelByCustomer(e.ctx, e.customer, o.ID, c)
	assert.Equal(t, domain.KindInvalidState, kindOf(err))
}

func TestCancelByCustomerGuards(t *testing.T) {
	e := newEnv(t)
	o := e.placeOrder(t, domain.PaymentCOD)
	stranger := e.mkUser(t, "nguoila", domain.RoleCustomer)

	_, err := e.orders.CancelByCustomer(e.ctx, stranger, o.ID, cart.New())
	assert.Equal(t, domain.KindForbidden, kindOf(err))

	e.setStatus(t, o, domain.StatusShipping)
	_, err = e.orders.CancelByCustomer(e.ctx, e.customer, o.ID, cart.New())
	assert.Equal(t, domain.KindInvalidState, kindOf(err))

	e.setStatus(t, o, domain.StatusProcessing)
	_, err = e.orders.CancelByCustomer(e.ctx, e.customer, o.ID, nil)
	assert.NoError(t, err)
}

func TestConfirmPayment(t *testing.T) {
	e := newEnv(t)
	cod := e.placeOrder(t, domain.PaymentCOD)
	_, err := e.orders.ConfirmPayment(e.ctx, e.customer, cod.ID)
	assert.Equal(t, domain.KindInvalidState, kindOf(err))

	online := e.placeOrder(t, domain.PaymentOnline)
	got, err := e.orders.ConfirmPayment(e.ctx, e.customer, online.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentConfirmed, got.PaymentStatus)
	assert.NotNil(t, got.PaymentConfirmedAt)
	assert.Equal(t, domain.StatusPending, got.Status)

	e.setStatus(t, online, domain.StatusProcessing)
	_, err = e.orders.ConfirmPayment(e.ctx, e.customer, online.ID)
	assert.Equal(t, domain.KindInvalidState, kindOf(err))

	_, err = e.orders.ConfirmPayment(e.ctx, e.admin, online.ID)
	assert.Equal(t, domain.KindForbidden, kindOf(err))
}

func TestAdminListAndGet(t *testing.T) {
	e := newEnv(t)
	first := e.placeOrder(t, domain.PaymentCOD)
	second := e.placeOrder(t, domain.PaymentOnline)
	e.setStatus(t, first, domain.StatusProcessing)

	all, err := e.orders.List(e.ctx, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	require.NotNil(t, all[0].Customer)
	assert.Equal(t, "khach", all[0].Customer.Username)
	assert.Equal(t, second.Code(), all[0].Code)

	st, err := ParseStatusFilter("processing")
	require.NoError(t, err)
	list, err := e.orders.List(e.ctx, domain.OrderFilter{Status: st})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	st, err = ParseStatusFilter("all")
	require.NoError(t, err)
	assert.Empty(t, st)
	_, err = ParseStatusFilter("paid")
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))

	v, err := e.orders.GetPublic(e.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, v.ID)

	require.NoError(t, e.orders.Delete(e.ctx, first.ID))
	_, err = e.orders.Get(e.ctx, first.ID)
	assert.Equal(t, domain.KindNotFound, kindOf(err))
	assert.Equal(t, domain.KindNotFound, kindOf(e.orders.Delete(e.ctx, first.ID)))
}

func TestAdminCreate(t *testing.T) {
	e := newEnv(t)
	vid := e.product.Variants[0].ID
	discount := dec("10000")
	fee := decimal.Zero

	o, err := e.orders.AdminCreate(e.ctx, e.admin, AdminOrderInput{
		Items:          []ItemInput{{ProductID: e.product.ID, VariantID: vid, Quantity: dec("1.5")}},
		DiscountAmount: &discount,
		ShippingFee:    &fee,
		ShippingAddress: &domain.ShippingAddress{
			Name: "Khách lẻ", Phone: "0909", Address: "Chợ Bến Thành",
		},
	})
	require.NoError(t, err)
	assert.Nil(t, o.CustomerID)
	assert.True(t, o.Total.Equal(dec("140000")), o.Total.String())
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, domain.PaymentCOD, o.PaymentMethod)
	require.NotNil(t, o.CreatedBy)
	assert.Equal(t, e.admin.UserID, *o.CreatedBy)

	huge := dec("1000000")
	o, err = e.orders.AdminCreate(e.ctx, e.admin, AdminOrderInput{
		Items:          []ItemInput{{ProductID: e.product.ID, VariantID: vid, Quantity: dec("1")}},
		DiscountAmount: &huge,
	})
	require.NoError(t, err)
	assert.True(t, o.Total.IsZero())
}

func TestAdminCreateDefaultsAddressFromCustomer(t *testing.T) {
	e := newEnv(t)
	u, _ := e.mem.Users().FindByID(e.ctx, e.customer.UserID)
	u.Phone, u.Address = "0912", "12 Nguyễn Huệ"
	require.NoError(t, e.mem.Users().Update(e.ctx, u))

	o, err := e.orders.AdminCreate(e.ctx, e.employee, AdminOrderInput{
		CustomerID: e.customer.UserID,
		Items:      []ItemInput{{ProductID: e.product.ID, VariantID: e.product.Variants[0].ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShippingAddress{Name: "khach", Phone: "0912", Address: "12 Nguyễn Huệ"}, o.ShippingAddress)
	require.NotNil(t, o.CustomerID)
}

func TestAdminCreateRejects(t *testing.T) {
	e := newEnv(t)
	vid := e.product.Variants[0].ID
	item := []ItemInput{{ProductID: e.product.ID, VariantID: vid, Quantity: dec("1")}}
	neg := dec("-1")

	cases := []struct {
		name  string
		actor Actor
		in    AdminOrderInput
		kind  domain.ErrKind
	}{
		{"employee non-pending", e.employee, AdminOrderInput{Items: item, Status: domain.StatusProcessing}, domain.KindForbidden},
		{"no items", e.admin, AdminOrderInput{}, domain.KindInvalidArgument},
		{"tiny quantity", e.admin, AdminOrderInput{Items: []ItemInput{{ProductID: e.product.ID, VariantID: vid, Quantity: dec("0.05")}}}, domain.KindInvalidArgument},
		{"unknown variant", e.admin, AdminOrderInput{Items: []ItemInput{{ProductID: e.product.ID, VariantID: "x", Quantity: dec("1")}}}, domain.KindInvalidArgument},
		{"unknown customer", e.admin, AdminOrderInput{Items: item, CustomerID: "ghost"}, domain.KindInvalidArgument},
		{"negative fee", e.admin, AdminOrderInput{Items: item, ShippingFee: &neg}, domain.KindInvalidArgument},
		{"bad method", e.admin, AdminOrderInput{Items: item, PaymentMethod: "Card"}, domain.KindInvalidArgument},
		{"bad status", e.admin, AdminOrderInput{Items: item, Status: "lost"}, domain.KindInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.orders.AdminCreate(e.ctx, tc.actor, tc.in)
			assert.Equal(t, tc.kind, kindOf(err))
		})
	}
}

func TestAdminUpdateEmployeeRestriction(t *testing.T) {
	e := newEnv(t)
	o := e.placeOrder(t, domain.PaymentCOD)
	e.setStatus(t, o, domain.StatusProcessing)

	fee := dec("0")
	_, err := e.orders.AdminUpdate(e.ctx, e.employee, o.ID, AdminOrderPatch{ShippingFee: &fee})
	assert.Equal(t, domain.KindForbidden, kindOf(err))

	addr := "99 Hai Bà Trưng"
	note := "gọi trước khi giao"
	got, err := e.orders.AdminUpdate(e.ctx, e.employee, o.ID, AdminOrderPatch{
		ShippingAddress: &AddressPatch{Address: &addr},
		Note:            &note,
	})
	require.NoError(t, err)
	assert.Equal(t, addr, got.ShippingAddress.Address)
	assert.Equal(t, "Lan", got.ShippingAddress.Name)
	assert.Equal(t, note, got.Note)
	assert.True(t, got.Total.Equal(dec("230000")))
}

func TestAdminUpdateRecomputesAndTransitions(t *testing.T) {
	e := newEnv(t)
	o := e.placeOrder(t, domain.PaymentCOD)
	discount := dec("30000")

	got, err := e.orders.AdminUpdate(e.ctx, e.employee, o.ID, AdminOrderPatch{
		Items:          []ItemInput{{ProductID: e.product.ID, VariantID: e.product.Variants[0].ID, Quantity: dec("3")}},
		DiscountAmount: &discount,
		Status:         domain.StatusProcessing,
	})
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec("300000")), got.Total.String())
	assert.Equal(t, domain.StatusProcessing, got.Status)

	feed, _ := e.feed.List(e.ctx, e.customer)
	require.Len(t, feed, 1)
	assert.True(t, strings.Contains(feed[0].Message, "Đang xử lý"))

	// 回传当前状态不算变更
	_, err = e.orders.AdminUpdate(e.ctx, e.admin, o.ID, AdminOrderPatch{Status: domain.StatusProcessing})
	require.NoError(t, err)
	feed, _ = e.feed.List(e.ctx, e.customer)
	assert.Len(t, feed, 1)
	_, err = e.orders.ChangeStatus(e.ctx, e.admin, o.ID, domain.StatusProcessing)
	assert.Equal(t, domain.KindInvalidState, kindOf(err))

	_, err = e.orders.AdminUpdate(e.ctx, e.admin, o.ID, AdminOrderPatch{Status: domain.StatusCompleted})
	assert.Equal(t, domain.KindInvalidState, kindOf(err))
	stored, _ := e.mem.Orders().FindByID(e.ctx, o.ID)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}
