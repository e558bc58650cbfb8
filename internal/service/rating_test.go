package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/domain"
)

func TestRateRequiresCompletedPurchase(t *testing.T) {
	e := newEnv(t)
	in := RateInput{Stars: 5, Comment: "Tôm rất tươi"}

	_, err := e.ratings.Rate(e.ctx, e.customer, e.product.ID, in)
	assert.Equal(t, domain.KindForbidden, kindOf(err))

	o := e.placeOrder(t, domain.PaymentCOD)
	e.setStatus(t, o, domain.StatusShipping)
	_, err = e.ratings.Rate(e.ctx, e.customer, e.product.ID, in)
	assert.Equal(t, domain.KindForbidden, kindOf(err))

	e.setStatus(t, o, domain.StatusCompleted)
	r, err := e.ratings.Rate(e.ctx, e.customer, e.product.ID, in)
	require.NoError(t, err)
	assert.True(t, r.IsVerifiedPurchase)
	assert.Equal(t, 5, r.Stars)

	// 第二次评价
	_, err = e.ratings.Rate(e.ctx, e.customer, e.product.ID, RateInput{Stars: 1})
	assert.Equal(t, domain.KindConflict, kindOf(err))

	p, err := e.catalog.GetProduct(e.ctx, e.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, 5.0, p.AvgRating)
}

func TestRateValidation(t *testing.T) {
	e := newEnv(t)
	o := e.placeOrder(t, domain.PaymentCOD)
	e.setStatus(t, o, domain.StatusCompleted)

	cases := []struct {
		name  string
		actor Actor
		id    string
		in    RateInput
		kind  domain.ErrKind
	}{
		{"staff", e.employee, e.product.ID, RateInput{Stars: 4}, domain.KindForbidden},
		{"zero stars", e.customer, e.product.ID, RateInput{Stars: 0}, domain.KindInvalidArgument},
		{"six stars", e.customer, e.product.ID, RateInput{Stars: 6}, domain.KindInvalidArgument},
		{"long comment", e.customer, e.product.ID, RateInput{Stars: 3, Comment: strings.Repeat("á", 501)}, domain.KindInvalidArgument},
		{"missing product", e.customer, "missing", RateInput{Stars: 3}, domain.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.ratings.Rate(e.ctx, tc.actor, tc.id, tc.in)
			assert.Equal(t, tc.kind, kindOf(err))
		})
	}

	_, err := e.ratings.Rate(e.ctx, e.customer, e.product.ID, RateInput{Stars: 3, Comment: strings.Repeat("á", 500)})
	assert.NoError(t, err)
}
