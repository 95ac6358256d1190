package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeParseRoundTrip(t *testing.T) {
	s := NewSigner("secret", 0)

	tok, err := s.Make("652f1c0e9b1e8a0012345678", "creator")
	require.NoError(t, err)

	c, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "652f1c0e9b1e8a0012345678", c.UserID)
	assert.Equal(t, "creator", c.AccountType)
	assert.Equal(t, c.UserID, c.Subject)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), c.ExpiresAt.Time, time.Minute)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewSigner("one", time.Hour).Make("u1", "explorer")
	require.NoError(t, err)

	_, err = NewSigner("two", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := s.Make("u1", "explorer")
	require.NoError(t, err)

	_, err = NewSigner("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := NewSigner("secret", 0).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
