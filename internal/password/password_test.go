package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	encoded, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, encoded)
	require.NotContains(t, encoded, "correct horse battery staple")

	assert.True(t, Verify("correct horse battery staple", encoded))
	assert.False(t, Verify("wrong password", encoded))
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	h1, err := Hash("same password")
	require.NoError(t, err)
	h2, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("same password", h1))
	assert.True(t, Verify("same password", h2))
}

func TestHashArbitraryLengthInput(t *testing.T) {
	t.Parallel()

	for _, pw := range []string{"", "x", strings.Repeat("long", 2048)} {
		encoded, err := Hash(pw)
		require.NoError(t, err)
		assert.True(t, Verify(pw, encoded))
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"no separator", "bm9zZXBhcmF0b3I"},
		{"bad salt base64", "!!!:aGFzaA"},
		{"bad hash base64", "c2FsdA:!!!"},
		{"truncated hash", "c2FsdHNhbHRzYWx0c2FsdA:c2hvcnQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("any password", tt.encoded))
		})
	}
}
