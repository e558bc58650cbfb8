package domain

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
}

func (Category) TableName() string { return "categories" }

type Variant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

// Snapshot 下单/入购物车时冻结的规格信息
func (v Variant) Snapshot() VariantSnapshot {
	return VariantSnapshot{ID: v.ID, Name: v.Name, Price: v.Price, Unit: v.Unit}
}

type Rating struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID          string    `gorm:"size:36;not null;uniqueIndex:idx_rating_product_user" json:"productId"`
	UserID             string    `gorm:"size:36;not null;uniqueIndex:idx_rating_product_user" json:"userId"`
	Stars              int       `gorm:"not null" json:"stars"`
	Comment            string    `gorm:"size:500" json:"comment"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (Rating) TableName() string { return "product_ratings" }

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	CategoryID  string    `gorm:"size:36;index" json:"categoryId"`
	Type        string    `gorm:"size:64;index" json:"type"`
	Variants    []Variant `gorm:"serializer:json;type:text" json:"variants"`
	Ratings     []Rating  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"ratings"`
	CreatedBy   string    `gorm:"size:36" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

func (p *Product) FindVariant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// MinPrice 无规格时 ok=false
func (p *Product) MinPrice() (decimal.Decimal, bool) {
	if len(p.Variants) == 0 {
		return decimal.Zero, false
	}
	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(lowest) {
			lowest = v.Price
		}
	}
	return lowest, true
}

// AvgRating 保留一位小数
func (p *Product) AvgRating() float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r.Stars
	}
	avg := float64(sum) / float64(len(p.Ratings))
	return math.Round(avg*10) / 10
}

func (p *Product) RatedBy(userID string) bool {
	for _, r := range p.Ratings {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

type ProductFilter struct {
	Q          string
	CategoryID string
	Type       string
}

type RatingFilter struct {
	MinStars   int
	IsVerified *bool
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	// EnsureNames 幂等创建
	EnsureNames(ctx context.Context, names []string) (created int, err error)
}

// ProductRepository 查不到时返回 (nil, nil)；FindByID 会带出 Ratings
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	DistinctTypes(ctx context.Context) ([]string, error)
	AddRating(ctx context.Context, r *Rating) error
	DeleteRating(ctx context.Context, productID, ratingID string) (bool, error)
}
