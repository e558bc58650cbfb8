package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundCompleted RefundStatus = "completed"
	RefundConfirmed RefundStatus = "confirmed"
)

type BankInfo struct {
	AccountNumber string `gorm:"size:64" json:"accountNumber"`
	BankName      string `gorm:"size:128" json:"bankName"`
	AccountHolder string `gorm:"size:128" json:"accountHolder"`
}

type Refund struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string          `gorm:"size:36;uniqueIndex;not null" json:"orderId"`
	UserID    string          `gorm:"size:36;index;not null" json:"userId"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	BankInfo  BankInfo        `gorm:"embedded;embeddedPrefix:bank_" json:"bankInfo"`
	Status    RefundStatus    `gorm:"size:16;not null" json:"status"`
	AdminNote string          `gorm:"size:1000" json:"adminNote"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Refund) TableName() string { return "refunds" }

// RefundRepository 查不到时返回 (nil, nil)
type RefundRepository interface {
	Create(ctx context.Context, r *Refund) error
	FindByID(ctx context.Context, id string) (*Refund, error)
	FindByOrder(ctx context.Context, orderID string) (*Refund, error)
	List(ctx context.Context, userID string) ([]Refund, error) // userID 为空 = 全部
	Update(ctx context.Context, r *Refund) error
}
