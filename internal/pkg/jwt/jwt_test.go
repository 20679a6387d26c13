package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	s := NewSigner("secret", time.Hour)

	token, err := s.Sign("u1", "a@example.com", "author")
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "author", claims.Role)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	token, err := NewSigner("one", time.Hour).Sign("u1", "", "admin")
	require.NoError(t, err)

	_, err = NewSigner("two", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Sign("u1", "", "admin")
	require.NoError(t, err)

	_, err = NewSigner("secret", time.Minute).Parse(token)
	assert.Error(t, err)
}

func TestSignRequiresUser(t *testing.T) {
	_, err := NewSigner("", 0).Sign("", "", "")
	assert.Error(t, err)
}
