package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/cart"
	"seafood-shop/internal/domain"
)

func TestCartUpdateNeedsBothFields(t *testing.T) {
	e := newEnv(t)
	c := cart.New()
	_, err := e.carts.Add(e.ctx, c, AddToCartInput{ProductID: e.product.ID, VariantID: e.product.Variants[0].ID, Quantity: domain.Money(1)})
	require.NoError(t, err)

	idx, qty := 0, domain.Money(3)
	cases := []UpdateCartInput{{}, {ItemIndex: &idx}, {Quantity: &qty}}
	for _, in := range cases {
		_, err := e.carts.Update(c, in)
		assert.Equal(t, domain.KindInvalidArgument, kindOf(err))
	}
	assert.Equal(t, 1, c.Len())

	view, err := e.carts.Update(c, UpdateCartInput{ItemIndex: &idx, Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(domain.Money(300000)))
}
