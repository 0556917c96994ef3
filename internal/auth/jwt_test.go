package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	s := NewSigner(secret, time.Hour)
	token, issued, err := s.Issue(42, "admin@nuvyra.store")
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, "admin@nuvyra.store", claims.Email)

	id, err := claims.AdminID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestParseRejectsExpiredAndForeign(t *testing.T) {
	s := NewSigner(secret, time.Hour)
	token, _, err := s.Issue(1, "a@b.c")
	require.NoError(t, err)

	later := NewSigner(secret, time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other := NewSigner("ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)

	_, err = s.Parse("garbage")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
