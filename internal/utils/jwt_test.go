package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-1", "mechanic1", "MECHANIC", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now().UTC().Add(55*time.Minute)))

	claims, err := VerifyAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "mechanic1", claims.Username)
	assert.Equal(t, "MECHANIC", claims.Role)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-1", "mechanic1", "MECHANIC", -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-1", "mechanic1", "MECHANIC", 60)
	require.NoError(t, err)

	_, err = VerifyAccessToken("a-different-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenTampered(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "user-1", "mechanic1", "MECHANIC", 60)
	require.NoError(t, err)

	// Flip one character inside the payload segment.
	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	_, err = VerifyAccessToken(testSecret, strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := VerifyAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}
