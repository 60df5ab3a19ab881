package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobIdentifierFormat(t *testing.T) {
	id, err := NewJobIdentifier()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "JOB-"))
	hexPart := strings.TrimPrefix(id, "JOB-")
	assert.Len(t, hexPart, 32)
	for _, r := range hexPart {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}

func TestNewJobIdentifierUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewJobIdentifier()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	}
}

func TestRandomHexLength(t *testing.T) {
	s, err := RandomHex(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)
}
