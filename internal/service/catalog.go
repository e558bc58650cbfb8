package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/core/cache"
	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

const (
	keyCategories   = "shop:categories"
	keyProductTypes = "shop:product-types"
)

type CatalogService struct {
	cats     domain.CategoryRepository
	products domain.ProductRepository
	users    domain.UserRepository
	cache    *cache.Cache // nil = 不缓存
	ttl      time.Duration
	log      *zap.Logger
}

func NewCatalogService(
	cats domain.CategoryRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	c *cache.Cache,
	ttl time.Duration,
	l *zap.Logger,
) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{cats: cats, products: products, users: users, cache: c, ttl: ttl, log: l.Named("catalog")}
}

type ProductView struct {
	domain.Product
	Category    *domain.Category `json:"category,omitempty"`
	AvgRating   float64          `json:"avgRating"`
	ReviewCount int              `json:"reviewCount"`
	MinPrice    *decimal.Decimal `json:"minPrice"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type RatingView struct {
	domain.Rating
	Author *Author `json:"author"`
}

type ProductDetail struct {
	ProductView
	Ratings []RatingView `json:"ratings"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyCategories, s.ttl, func(ctx context.Context) ([]domain.Category, error) {
		cs, err := s.cats.List(ctx)
		if cs == nil {
			cs = []domain.Category{}
		}
		return cs, err
	})
}

// EnsureCategories 启动时调用，幂等
func (s *CatalogService) EnsureCategories(ctx context.Context, names []string) error {
	n, err := s.cats.EnsureNames(ctx, names)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("categories seeded", zap.Int("created", n))
		return s.cache.Invalidate(ctx, keyCategories)
	}
	return nil
}

func (s *CatalogService) categoryIndex(ctx context.Context) map[string]domain.Category {
	cs, err := s.ListCategories(ctx)
	if err != nil {
		// 分类只是展示信息，拿不到不影响商品列表
		s.log.Warn("load categories failed", zap.Error(err))
		return nil
	}
	idx := make(map[string]domain.Category, len(cs))
	for _, c := range cs {
		idx[c.ID] = c
	}
	return idx
}

func toView(p domain.Product, cats map[string]domain.Category) ProductView {
	v := ProductView{Product: p, AvgRating: p.AvgRating(), ReviewCount: len(p.Ratings)}
	if mp, ok := p.MinPrice(); ok {
		v.MinPrice = &mp
	}
	if c, ok := cats[p.CategoryID]; ok {
		v.Category = &c
	}
	if v.Variants == nil {
		v.Variants = []domain.Variant{}
	}
	if v.Product.Ratings == nil {
		v.Product.Ratings = []domain.Rating{}
	}
	return v
}

func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]ProductView, error) {
	ps, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	cats := s.categoryIndex(ctx)
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toView(p, cats))
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := notFoundIfNil(s.products.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	ratings, err := s.withAuthors(ctx, p.Ratings)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{ProductView: toView(*p, s.categoryIndex(ctx)), Ratings: ratings}, nil
}

func (s *CatalogService) withAuthors(ctx context.Context, rs []domain.Rating) ([]RatingView, error) {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.UserID)
	}
	us, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.User, len(us))
	for _, u := range us {
		byID[u.ID] = u
	}
	out := make([]RatingView, 0, len(rs))
	for _, r := range rs {
		v := RatingView{Rating: r}
		if u, ok := byID[r.UserID]; ok {
			v.Author = &Author{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
		}
		out = append(out, v)
	}
	return out, nil
}

// ResolveLine 加入购物车前按当前目录冻结商品与规格
func (s *CatalogService) ResolveLine(ctx context.Context, productID, variantID string, qty decimal.Decimal) (cart.Line, error) {
	if productID == "" || variantID == "" || !qty.IsPositive() {
		return cart.Line{}, domain.InvalidArgument("productId, variantId and a positive quantity are required")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return cart.Line{}, err
	}
	if p == nil {
		return cart.Line{}, domain.NotFound("product not found")
	}
	v, ok := p.FindVariant(variantID)
	if !ok {
		return cart.Line{}, domain.NotFound("variant not found")
	}
	return cart.Line{
		Product:  cart.ProductRef{ID: p.ID, Name: p.Name, Image: p.Image},
		Variant:  v.Snapshot(),
		Quantity: qty,
	}, nil
}

/* ---------------- 后台 ---------------- */

type VariantInput struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

type ProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	CategoryID  string         `json:"categoryId"`
	Type        string         `json:"type"`
	Variants    []VariantInput `json:"variants"`
}

func (s *CatalogService) validate(ctx context.Context, in ProductInput) ([]domain.Variant, error) {
	if trim(in.Name) == "" || in.CategoryID == "" {
		return nil, domain.InvalidArgument("name and categoryId are required")
	}
	if len(in.Variants) == 0 {
		return nil, domain.InvalidArgument("at least one variant is required")
	}
	c, err := s.cats.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.InvalidArgument("category %s does not exist", in.CategoryID)
	}
	vs := make([]domain.Variant, 0, len(in.Variants))
	for i, v := range in.Variants {
		if trim(v.Name) == "" {
			return nil, domain.InvalidArgument("variant %d: name is required", i+1)
		}
		if v.Price.IsNegative() {
			return nil, domain.InvalidArgument("variant %d: price must not be negative", i+1)
		}
		id := v.ID
		if id == "" {
			id = utils.NewID()
		}
		unit := trim(v.Unit)
		if unit == "" {
			unit = "kg"
		}
		vs = append(vs, domain.Variant{ID: id, Name: trim(v.Name), Price: v.Price, Unit: unit})
	}
	return vs, nil
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name, selfID string) error {
	p, err := s.products.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if p != nil && p.ID != selfID {
		return domain.Conflict("product name already exists")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*domain.Product, error) {
	vs, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	name := trim(in.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          utils.NewID(),
		Name:        name,
		Description: in.Description,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		Type:        trim(in.Type),
		Variants:    vs,
		CreatedBy:   actor.UserID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateTypes(ctx)
	s.log.Info("product created", zap.String("productId", p.ID), zap.String("by", actor.UserID))
	return p, nil
}

// UpdateProduct image 为空时保留原图
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := notFoundIfNil(s.products.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	vs, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	name := trim(in.Name)
	if err := s.ensureNameFree(ctx, name, p.ID); err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = in.Description
	p.CategoryID = in.CategoryID
	p.Type = trim(in.Type)
	p.Variants = vs
	if in.Image != "" {
		p.Image = in.Image
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateTypes(ctx)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := notFoundIfNil(s.products.FindByID(ctx, id)); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateTypes(ctx)
	return nil
}

func (s *CatalogService) ProductTypes(ctx context.Context) ([]string, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyProductTypes, s.ttl, func(ctx context.Context) ([]string, error) {
		ts, err := s.products.DistinctTypes(ctx)
		if ts == nil {
			ts = []string{}
		}
		return ts, err
	})
}

func (s *CatalogService) invalidateTypes(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, keyProductTypes); err != nil {
		s.log.Warn("invalidate cache failed", zap.String("key", keyProductTypes), zap.Error(err))
	}
}

type ProductRatings struct {
	Product cart.ProductRef `json:"product"`
	Ratings []RatingView    `json:"ratings"`
}

func (s *CatalogService) ListRatings(ctx context.Context, productID string, f domain.RatingFilter) (*ProductRatings, error) {
	p, err := notFoundIfNil(s.products.FindByID(ctx, productID))
	if err != nil {
		return nil, err
	}
	kept := make([]domain.Rating, 0, len(p.Ratings))
	for _, r := range p.Ratings {
		if r.Stars < f.MinStars {
			continue
		}
		if f.IsVerified != nil && r.IsVerifiedPurchase != *f.IsVerified {
			continue
		}
		kept = append(kept, r)
	}
	views, err := s.withAuthors(ctx, kept)
	if err != nil {
		return nil, err
	}
	return &ProductRatings{
		Product: cart.ProductRef{ID: p.ID, Name: p.Name, Image: p.Image},
		Ratings: views,
	}, nil
}

func (s *CatalogService) DeleteRating(ctx context.Context, productID, ratingID string) error {
	if _, err := notFoundIfNil(s.products.FindByID(ctx, productID)); err != nil {
		return err
	}
	ok, err := s.products.DeleteRating(ctx, productID, ratingID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("rating not found")
	}
	return nil
}
