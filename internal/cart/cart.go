// Package cart 会话购物车：只存在于 session，不落库。
package cart

import (
	"github.com/shopspring/decimal"

	"seafood-shop/internal/domain"
)

type ProductRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Line struct {
	Product  ProductRef             `json:"product"`
	Variant  domain.VariantSnapshot `json:"variant"`
	Quantity decimal.Decimal        `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal { return l.Variant.Price.Mul(l.Quantity) }

// Holder 请求内可见的购物车操作
type Holder interface {
	Get() View
	Add(l Line) error
	Update(index int, qty decimal.Decimal) error
	Remove(index int) error
}

// View 返回给前端的只读快照
type View struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type Cart struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`

	dirty bool
}

var _ Holder = (*Cart)(nil)

func New() *Cart { return &Cart{Items: []Line{}} }

func (c *Cart) Get() View {
	items := make([]Line, len(c.Items))
	copy(items, c.Items)
	return View{Items: items, Total: c.Total}
}

// Add 同商品同规格合并数量
func (c *Cart) Add(l Line) error {
	if !l.Quantity.IsPositive() {
		return domain.InvalidArgument("quantity must be greater than 0")
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == l.Product.ID && c.Items[i].Variant.ID == l.Variant.ID {
			c.Items[i].Quantity = c.Items[i].Quantity.Add(l.Quantity)
			c.changed()
			return nil
		}
	}
	c.Items = append(c.Items, l)
	c.changed()
	return nil
}

// Update qty<=0 视为删除
func (c *Cart) Update(index int, qty decimal.Decimal) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if !qty.IsPositive() {
		return c.Remove(index)
	}
	c.Items[index].Quantity = qty
	c.changed()
	return nil
}

func (c *Cart) Remove(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	c.changed()
	return nil
}

// Restore 取消订单时把商品原样放回（不合并）
func (c *Cart) Restore(lines ...Line) {
	if len(lines) == 0 {
		return
	}
	c.Items = append(c.Items, lines...)
	c.changed()
}

// Selected mask 为 nil 表示全选；mask 越界部分视为未选
func (c *Cart) Selected(mask []bool) []Line {
	out := make([]Line, 0, len(c.Items))
	for i, l := range c.Items {
		if mask == nil || (i < len(mask) && mask[i]) {
			out = append(out, l)
		}
	}
	return out
}

// Drop 删除被选中的行，保留其余
func (c *Cart) Drop(mask []bool) {
	kept := make([]Line, 0, len(c.Items))
	for i, l := range c.Items {
		if mask == nil || (i < len(mask) && mask[i]) {
			continue
		}
		kept = append(kept, l)
	}
	c.Items = kept
	c.changed()
}

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Dirty() bool { return c.dirty }

// Recompute 每次变更后重新累加，不做增量
func (c *Cart) Recompute() {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	c.Total = total
}

func (c *Cart) changed() {
	c.Recompute()
	c.dirty = true
}

func (c *Cart) checkIndex(i int) error {
	if i < 0 || i >= len(c.Items) {
		return domain.InvalidArgument("invalid item index %d", i)
	}
	return nil
}
