// Package memory 进程内仓储，语义与 gorm 实现一致；用于测试和无数据库的本地调试。
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"seafood-shop/internal/domain"
	"seafood-shop/pkg/utils"
)

// Store 所有仓储共用一把锁
type Store struct {
	mu            sync.RWMutex
	seq           int64
	users         map[string]*row[domain.User]
	categories    map[string]*row[domain.Category]
	products      map[string]*row[domain.Product]
	ratings       map[string]*row[domain.Rating]
	orders        map[string]*row[domain.Order]
	refunds       map[string]*row[domain.Refund]
	notifications map[string]*row[domain.Notification]
}

type row[T any] struct {
	seq int64
	v   T
}

func New() *Store {
	return &Store{
		users:         map[string]*row[domain.User]{},
		categories:    map[string]*row[domain.Category]{},
		products:      map[string]*row[domain.Product]{},
		ratings:       map[string]*row[domain.Rating]{},
		orders:        map[string]*row[domain.Order]{},
		refunds:       map[string]*row[domain.Refund]{},
		notifications: map[string]*row[domain.Notification]{},
	}
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Categories() *Categories       { return &Categories{s} }
func (s *Store) Products() *Products           { return &Products{s} }
func (s *Store) Orders() *Orders               { return &Orders{s} }
func (s *Store) Refunds() *Refunds             { return &Refunds{s} }
func (s *Store) Notifications() *Notifications { return &Notifications{s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// newestFirst 按 CreatedAt 倒序，同一时刻按写入顺序倒序
func newestFirst[T any](m map[string]*row[T], keep func(*T) bool, created func(*T) time.Time) []T {
	rows := make([]*row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(&r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := created(&rows[i].v), created(&rows[j].v)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.v)
	}
	return out
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

/* ---------------- users ---------------- */

type Users struct{ s *Store }

var _ domain.UserRepository = (*Users)(nil)

func (r *Users) clash(u *domain.User) bool {
	for id, x := range r.s.users {
		if id == u.ID {
			continue
		}
		if (u.Username != "" && x.v.Username == u.Username) || (u.Email != "" && x.v.Email == u.Email) {
			return true
		}
	}
	return false
}

func (r *Users) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if _, ok := r.s.users[u.ID]; ok || r.clash(u) {
		return domain.Conflict("duplicate value")
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	r.s.users[u.ID] = &row[domain.User]{seq: r.s.next(), v: *u}
	return nil
}

func (r *Users) find(match func(*domain.User) bool) *domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.users {
		if match(&x.v) {
			u := x.v
			return &u
		}
	}
	return nil
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id }), nil
}

func (r *Users) FindByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.User
	for _, id := range ids {
		if x, ok := r.s.users[id]; ok {
			out = append(out, x.v)
		}
	}
	return out, nil
}

func (r *Users) FindByLogin(_ context.Context, key string) (*domain.User, error) {
	email := strings.ToLower(key)
	return r.find(func(u *domain.User) bool { return u.Email == email || u.Username == key }), nil
}

func (r *Users) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username }), nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u *domain.User) bool { return u.Email == email }), nil
}

func (r *Users) List(_ context.Context, f domain.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.TrimSpace(f.Q)
	return newestFirst(r.s.users, func(u *domain.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if f.ExcludeRole != "" && u.Role == f.ExcludeRole {
			return false
		}
		if q == "" {
			return true
		}
		return contains(u.Username, q) || contains(u.Email, q) || (f.IncludePhone && contains(u.Phone, q))
	}, func(u *domain.User) time.Time { return u.CreatedAt }), nil
}

func (r *Users) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.users[u.ID]
	if !ok {
		return nil
	}
	if r.clash(u) {
		return domain.Conflict("duplicate value")
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	x.v = *u
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *Users) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, x := range r.s.users {
		if x.v.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *Users) IDsByRole(_ context.Context, role domain.Role) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, x := range r.s.users {
		if x.v.Role == role {
			ids = append(ids, x.v.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

/* ---------------- categories ---------------- */

type Categories struct{ s *Store }

var _ domain.CategoryRepository = (*Categories)(nil)

func (r *Categories) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, x := range r.s.categories {
		out = append(out, x.v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Categories) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if x, ok := r.s.categories[id]; ok {
		c := x.v
		return &c, nil
	}
	return nil, nil
}

func (r *Categories) EnsureNames(_ context.Context, names []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing := map[string]bool{}
	for _, x := range r.s.categories {
		existing[x.v.Name] = true
	}
	created := 0
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || existing[n] {
			continue
		}
		c := domain.Category{ID: utils.NewID(), Name: n}
		r.s.categories[c.ID] = &row[domain.Category]{seq: r.s.next(), v: c}
		existing[n] = true
		created++
	}
	return created, nil
}

/* ---------------- products & ratings ---------------- */

type Products struct{ s *Store }

var _ domain.ProductRepository = (*Products)(nil)

func (r *Products) nameTaken(p *domain.Product) bool {
	for id, x := range r.s.products {
		if id != p.ID && x.v.Name == p.Name {
			return true
		}
	}
	return false
}

// withRatings 调用方需持有读锁
func (r *Products) withRatings(p domain.Product) domain.Product {
	p.Variants = append([]domain.Variant(nil), p.Variants...)
	p.Ratings = newestFirst(r.s.ratings, func(rt *domain.Rating) bool { return rt.ProductID == p.ID },
		func(rt *domain.Rating) time.Time { return rt.CreatedAt })
	return p
}

func (r *Products) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	if r.nameTaken(p) {
		return domain.Conflict("duplicate value")
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	v := *p
	v.Variants = append([]domain.Variant(nil), p.Variants...)
	v.Ratings = nil
	r.s.products[p.ID] = &row[domain.Product]{seq: r.s.next(), v: v}
	return nil
}

func (r *Products) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p := r.withRatings(x.v)
	return &p, nil
}

func (r *Products) FindByName(_ context.Context, name string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.products {
		if x.v.Name == name {
			p := r.withRatings(x.v)
			return &p, nil
		}
	}
	return nil, nil
}

func (r *Products) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.TrimSpace(f.Q)
	ps := newestFirst(r.s.products, func(p *domain.Product) bool {
		if q != "" && !contains(p.Name, q) {
			return false
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			return false
		}
		return f.Type == "" || p.Type == f.Type
	}, func(p *domain.Product) time.Time { return p.CreatedAt })
	for i := range ps {
		ps[i] = r.withRatings(ps[i])
	}
	return ps, nil
}

func (r *Products) Update(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	if r.nameTaken(p) {
		return domain.Conflict("duplicate value")
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	v := *p
	v.Variants = append([]domain.Variant(nil), p.Variants...)
	v.Ratings = nil
	x.v = v
	return nil
}

func (r *Products) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	for rid, x := range r.s.ratings {
		if x.v.ProductID == id {
			delete(r.s.ratings, rid)
		}
	}
	return nil
}

func (r *Products) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.products)), nil
}

func (r *Products) DistinctTypes(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, x := range r.s.products {
		if t := x.v.Type; t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *Products) AddRating(_ context.Context, rt *domain.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.ratings {
		if x.v.ProductID == rt.ProductID && x.v.UserID == rt.UserID {
			return domain.Conflict("duplicate value")
		}
	}
	if rt.ID == "" {
		rt.ID = utils.NewID()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now()
	}
	r.s.ratings[rt.ID] = &row[domain.Rating]{seq: r.s.next(), v: *rt}
	return nil
}

func (r *Products) DeleteRating(_ context.Context, productID, ratingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.ratings[ratingID]
	if !ok || x.v.ProductID != productID {
		return false, nil
	}
	delete(r.s.ratings, ratingID)
	return true, nil
}

/* ---------------- orders ---------------- */

type Orders struct{ s *Store }

var _ domain.OrderRepository = (*Orders)(nil)

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

func (r *Orders) Create(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	r.s.orders[o.ID] = &row[domain.Order]{seq: r.s.next(), v: cloneOrder(*o)}
	return nil
}

func (r *Orders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	x, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o := cloneOrder(x.v)
	return &o, nil
}

func (r *Orders) List(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.TrimSpace(f.Q)
	out := newestFirst(r.s.orders, func(o *domain.Order) bool {
		if f.Status != "" && o.Status != f.Status {
			return false
		}
		if f.CustomerID != "" && !o.OwnedBy(f.CustomerID) {
			return false
		}
		return q == "" || contains(o.ShippingAddress.Name, q) || contains(o.ShippingAddress.Phone, q)
	}, func(o *domain.Order) time.Time { return o.CreatedAt })
	for i := range out {
		out[i] = cloneOrder(out[i])
	}
	return out, nil
}

func (r *Orders) Update(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.orders[o.ID]
	if !ok {
		return nil
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	x.v = cloneOrder(*o)
	return nil
}

func (r *Orders) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (r *Orders) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.orders)), nil
}

func (r *Orders) RevenueByStatus(_ context.Context, status domain.OrderStatus) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := decimal.Zero
	for _, x := range r.s.orders {
		if x.v.Status == status {
			sum = sum.Add(x.v.Total)
		}
	}
	return sum, nil
}

/* ---------------- refunds ---------------- */

type Refunds struct{ s *Store }

var _ domain.RefundRepository = (*Refunds)(nil)

func (r *Refunds) Create(_ context.Context, rf *domain.Refund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.refunds {
		if x.v.OrderID == rf.OrderID {
			return domain.Conflict("duplicate value")
		}
	}
	if rf.ID == "" {
		rf.ID = utils.NewID()
	}
	stamp(&rf.CreatedAt, &rf.UpdatedAt)
	r.s.refunds[rf.ID] = &row[domain.Refund]{seq: r.s.next(), v: *rf}
	return nil
}

func (r *Refunds) find(match func(*domain.Refund) bool) *domain.Refund {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.refunds {
		if match(&x.v) {
			rf := x.v
			return &rf
		}
	}
	return nil
}

func (r *Refunds) FindByID(_ context.Context, id string) (*domain.Refund, error) {
	return r.find(func(rf *domain.Refund) bool { return rf.ID == id }), nil
}

func (r *Refunds) FindByOrder(_ context.Context, orderID string) (*domain.Refund, error) {
	return r.find(func(rf *domain.Refund) bool { return rf.OrderID == orderID }), nil
}

func (r *Refunds) List(_ context.Context, userID string) ([]domain.Refund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return newestFirst(r.s.refunds, func(rf *domain.Refund) bool {
		return userID == "" || rf.UserID == userID
	}, func(rf *domain.Refund) time.Time { return rf.CreatedAt }), nil
}

func (r *Refunds) Update(_ context.Context, rf *domain.Refund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if x, ok := r.s.refunds[rf.ID]; ok {
		stamp(&rf.CreatedAt, &rf.UpdatedAt)
		x.v = *rf
	}
	return nil
}

/* ---------------- notifications ---------------- */

type Notifications struct{ s *Store }

var _ domain.NotificationStore = (*Notifications)(nil)

func (r *Notifications) Insert(_ context.Context, ns ...*domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range ns {
		if n.ID == "" {
			n.ID = utils.NewID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		r.s.notifications[n.ID] = &row[domain.Notification]{seq: r.s.next(), v: *n}
	}
	return nil
}

func (r *Notifications) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return newestFirst(r.s.notifications, func(n *domain.Notification) bool { return n.UserID == userID },
		func(n *domain.Notification) time.Time { return n.CreatedAt }), nil
}

func (r *Notifications) CountUnread(_ context.Context, userID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.v.UserID == userID && !x.v.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *Notifications) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.notifications[id]
	if !ok || x.v.UserID != userID {
		return nil, nil
	}
	x.v.IsRead = true
	n := x.v
	return &n, nil
}

func (r *Notifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.v.UserID == userID && !x.v.IsRead {
			x.v.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *Notifications) Delete(_ context.Context, id, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.notifications[id]
	if !ok || x.v.UserID != userID {
		return false, nil
	}
	delete(r.s.notifications, id)
	return true, nil
}

func (r *Notifications) DeleteAll(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, x := range r.s.notifications {
		if x.v.UserID == userID {
			delete(r.s.notifications, id)
			n++
		}
	}
	return n, nil
}
