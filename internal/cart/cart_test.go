package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/domain"
)

func line(pid, vid string, price int64, qty string) Line {
	return Line{
		Product:  ProductRef{ID: pid, Name: "P-" + pid},
		Variant:  domain.VariantSnapshot{ID: vid, Name: "V-" + vid, Price: decimal.NewFromInt(price), Unit: "kg"},
		Quantity: decimal.RequireFromString(qty),
	}
}

func sum(c *Cart) decimal.Decimal {
	s := decimal.Zero
	for _, l := range c.Items {
		s = s.Add(l.Variant.Price.Mul(l.Quantity))
	}
	return s
}

func TestAddMergesSameVariant(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", "1", 100000, "2")))
	require.NoError(t, c.Add(line("a", "1", 100000, "0.5")))

	require.Len(t, c.Items, 1)
	assert.True(t, c.Items[0].Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, c.Total.Equal(decimal.NewFromInt(250000)), c.Total.String())
	assert.True(t, c.Dirty())
}

func TestAddRejectsNonPositive(t *testing.T) {
	c := New()
	err := c.Add(line("a", "1", 100, "0"))
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	assert.Empty(t, c.Items)
	assert.False(t, c.Dirty())
}

func TestUpdateAndRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", "1", 100, "1")))
	require.NoError(t, c.Add(line("b", "2", 50, "2")))

	require.NoError(t, c.Update(1, decimal.NewFromInt(4)))
	assert.True(t, c.Total.Equal(decimal.NewFromInt(300)))

	// 数量 <= 0 视为删除
	require.NoError(t, c.Update(0, decimal.Zero))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].Product.ID)

	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(c.Update(5, decimal.NewFromInt(1))))
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(c.Remove(-1)))
	require.NoError(t, c.Remove(0))
	assert.True(t, c.Total.IsZero())
}

func TestTotalAlwaysMatchesLines(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c := New()
	for i := 0; i < 500; i++ {
		switch r.Intn(3) {
		case 0:
			pid := string(rune('a' + r.Intn(4)))
			_ = c.Add(line(pid, "v", int64(1000*(1+r.Intn(9))), decimal.NewFromFloat(float64(1+r.Intn(20))/10).String()))
		case 1:
			_ = c.Update(r.Intn(6)-1, decimal.NewFromInt(int64(r.Intn(5)-1)))
		default:
			_ = c.Remove(r.Intn(6) - 1)
		}
		require.True(t, c.Total.Equal(sum(c)), "step %d: total %s != %s", i, c.Total, sum(c))
	}
}

func TestSelectedAndDrop(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", "1", 10, "1")))
	require.NoError(t, c.Add(line("b", "1", 20, "1")))
	require.NoError(t, c.Add(line("c", "1", 30, "1")))

	mask := []bool{true, false, true}
	sel := c.Selected(mask)
	require.Len(t, sel, 2)
	assert.Equal(t, "a", sel[0].Product.ID)
	assert.Equal(t, "c", sel[1].Product.ID)

	c.Drop(mask)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].Product.ID)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(20)))

	assert.Len(t, c.Selected(nil), 1)
	c.Drop(nil)
	assert.Empty(t, c.Items)
}

func TestRestoreAppends(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", "1", 10, "1")))
	c.Restore(line("a", "1", 10, "2"), line("b", "1", 5, "1"))
	assert.Len(t, c.Items, 3)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(35)))
}

func TestGetReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(line("a", "1", 10, "1")))
	v := c.Get()
	v.Items[0].Quantity = decimal.NewFromInt(99)
	assert.True(t, c.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
}
