package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seafood-shop/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "shop", TTL: 24 * time.Hour}
	tok, err := j.Issue(&domain.User{ID: "u1", Username: "lan", Role: domain.RoleEmployee})
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "lan", c.Username)
	assert.Equal(t, domain.RoleEmployee, c.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), c.ExpiresAt.Time, time.Minute)
}

func TestParseRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "shop", TTL: time.Hour}
	tok, err := j.Issue(&domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: "shop", TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.Error(t, err)

	wrongIssuer := &JWTer{Secret: []byte("k"), Issuer: "else", TTL: time.Hour}
	_, err = wrongIssuer.Parse(tok)
	assert.Error(t, err)

	expired := &JWTer{Secret: []byte("k"), Issuer: "shop", TTL: -2 * time.Hour}
	old, err := expired.Issue(&domain.User{ID: "u1"})
	require.NoError(t, err)
	_, err = j.Parse(old)
	assert.Error(t, err)

	_, err = j.Parse("garbage")
	assert.Error(t, err)
}
