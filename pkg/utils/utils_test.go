package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", h)
	assert.True(t, CheckPassword("abc123", h))
	assert.False(t, CheckPassword("abc124", h))
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("abc123"))
	assert.False(t, StrongPassword("abc12"))
	assert.False(t, StrongPassword("abcdefg"))
	assert.False(t, StrongPassword("1234567"))
	assert.True(t, StrongPassword("mậtkhẩu9"))
}

func TestNewIDUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}
