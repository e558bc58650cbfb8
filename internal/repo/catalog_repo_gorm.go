package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

var _ domain.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var cs []domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cs).Error
	return cs, err
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// EnsureNames 已存在的名字跳过（ON CONFLICT DO NOTHING）
func (r *CategoryRepo) EnsureNames(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&domain.Category{ID: utils.NewID(), Name: n})
		if res.Error != nil {
			return created, res.Error
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

var _ domain.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return wrapDup(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *ProductRepo) first(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where(query, args...).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProductRepo) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Preload("Ratings")
	if s := strings.TrimSpace(f.Q); s != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var ps []domain.Product
	err := q.Order("created_at DESC").Find(&ps).Error
	return ps, err
}

// Update 只写商品本身，评价走 AddRating/DeleteRating
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return wrapDup(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.Rating{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Product{}).Error
	})
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}

func (r *ProductRepo) DistinctTypes(ctx context.Context) ([]string, error) {
	var ts []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("type <> ''").Distinct("type").Order("type ASC").Pluck("type", &ts).Error
	return ts, err
}

func (r *ProductRepo) AddRating(ctx context.Context, rt *domain.Rating) error {
	return wrapDup(r.db.WithContext(ctx).Create(rt).Error)
}

func (r *ProductRepo) DeleteRating(ctx context.Context, productID, ratingID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", ratingID, productID).Delete(&domain.Rating{})
	return res.RowsAffected > 0, res.Error
}
