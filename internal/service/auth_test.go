package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/domain"
)

func TestRegister(t *testing.T) {
	e := newEnv(t)

	u, err := e.auth.Register(e.ctx, RegisterInput{Email: "  Minh@Gmail.com ", Password: "matkhau1"})
	require.NoError(t, err)
	assert.Equal(t, "minh@gmail.com", u.Email)
	assert.Equal(t, "minh", u.Username)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.NotEqual(t, "matkhau1", u.PasswordHash)

	_, err = e.auth.Register(e.ctx, RegisterInput{Email: "minh@gmail.com", Password: "matkhau1", Username: "other"})
	assert.Equal(t, domain.KindConflict, kindOf(err))

	_, err = e.auth.Register(e.ctx, RegisterInput{Email: "x@gmail.com", Password: "Minh", Username: "minh"})
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))

	_, err = e.auth.Register(e.ctx, RegisterInput{Email: "x@gmail.com", Password: "abcdef1", Username: "minh"})
	assert.Equal(t, domain.KindConflict, kindOf(err))

	_, err = e.auth.Register(e.ctx, RegisterInput{Password: "abcdef1"})
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Register(e.ctx, RegisterInput{Username: "hoa", Email: "hoa@shop.vn", Password: "abc123"})
	require.NoError(t, err)

	for _, in := range []LoginInput{
		{Identifier: "hoa", Password: "abc123"},
		{Email: "HOA@shop.vn", Password: "abc123"},
		{Username: "hoa", Password: "abc123"},
	} {
		res, err := e.auth.Login(e.ctx, in)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "hoa", res.User.Username)
		assert.Equal(t, domain.RoleCustomer, res.User.Role)

		claims, err := e.auth.jwt.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.UserID, claims.UserID)
	}

	_, err = e.auth.Login(e.ctx, LoginInput{Identifier: "hoa", Password: "wrong1"})
	assert.Equal(t, domain.KindUnauthenticated, kindOf(err))
	_, err = e.auth.Login(e.ctx, LoginInput{Identifier: "nobody", Password: "abc123"})
	assert.Equal(t, domain.KindUnauthenticated, kindOf(err))
	_, err = e.auth.Login(e.ctx, LoginInput{Password: "abc123"})
	assert.Equal(t, domain.KindInvalidArgument, kindOf(err))
}
