package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipping   OrderStatus = "shipping"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

var AllStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipping, StatusCompleted, StatusCancelled, StatusReturned,
}

func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool { return m == PaymentCOD || m == PaymentOnline }

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// InitialPaymentStatus COD 直接确认，Online 等客户确认转账
func InitialPaymentStatus(m PaymentMethod) PaymentStatus {
	if m == PaymentOnline {
		return PaymentUnpaid
	}
	return PaymentConfirmed
}

type VariantSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Variant      VariantSnapshot `json:"variant"`
	Quantity     decimal.Decimal `json:"quantity"`
}

func (it OrderItem) LineTotal() decimal.Decimal { return it.Variant.Price.Mul(it.Quantity) }

type ShippingAddress struct {
	Name    string `gorm:"size:128" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	Phone   string `gorm:"size:32;index" json:"phone"`
}

func (a ShippingAddress) Complete() bool {
	return strings.TrimSpace(a.Name) != "" && strings.TrimSpace(a.Address) != "" && strings.TrimSpace(a.Phone) != ""
}

type Order struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	CustomerID         *string         `gorm:"size:36;index" json:"customerId"`
	Items              []OrderItem     `gorm:"serializer:json;type:text" json:"items"`
	Total              decimal.Decimal `gorm:"type:decimal(18,2)" json:"total"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"discountAmount"`
	ShippingFee        decimal.Decimal `gorm:"type:decimal(18,2)" json:"shippingFee"`
	ShippingAddress    ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	Status             OrderStatus     `gorm:"size:16;index;not null" json:"status"`
	PaymentMethod      PaymentMethod   `gorm:"size:16;not null" json:"paymentMethod"`
	PaymentStatus      PaymentStatus   `gorm:"size:16" json:"paymentStatus"`
	PaymentConfirmedAt *time.Time      `json:"paymentConfirmedAt"`
	CreatedBy          *string         `gorm:"size:36" json:"createdBy"`
	Note               string          `gorm:"size:1000" json:"note"`
	CreatedAt          time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// Code 展示用短单号：id 末 8 位大写
func (o *Order) Code() string {
	id := strings.ReplaceAll(o.ID, "-", "")
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

func (o *Order) OwnedBy(userID string) bool {
	return o.CustomerID != nil && *o.CustomerID == userID
}

func (o *Order) Contains(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func Subtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ComputeTotal Σ(price×qty) + shipping − discount，不小于 0
func ComputeTotal(items []OrderItem, shippingFee, discount decimal.Decimal) decimal.Decimal {
	total := Subtotal(items).Add(shippingFee).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

type OrderFilter struct {
	Status     OrderStatus
	Q          string // 收件人姓名/电话
	CustomerID string
}

// OrderRepository 查不到时返回 (nil, nil)
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// RevenueByStatus 指定状态订单 total 之和
	RevenueByStatus(ctx context.Context, status OrderStatus) (decimal.Decimal, error)
}
