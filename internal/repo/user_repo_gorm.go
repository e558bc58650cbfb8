package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"seafood-shop/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return wrapDup(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var us []domain.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&us).Error
	return us, err
}

func (r *UserRepo) FindByLogin(ctx context.Context, key string) (*domain.User, error) {
	return r.first(ctx, "email = ? OR username = ?", strings.ToLower(key), key)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.ExcludeRole != "" {
		q = q.Where("role <> ?", f.ExcludeRole)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		like := containsPattern(s)
		if f.IncludePhone {
			q = q.Where("LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR phone LIKE ? ESCAPE '!'", like, like, like)
		} else {
			q = q.Where("LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", like, like)
		}
	}
	var us []domain.User
	err := q.Order("created_at DESC").Find(&us).Error
	return us, err
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return wrapDup(r.db.WithContext(ctx).Save(u).Error)
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

func (r *UserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *UserRepo) IDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Pluck("id", &ids).Error
	return ids, err
}
