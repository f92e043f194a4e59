package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuestToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewGuestToken()
		require.NoError(t, err)
		assert.Len(t, tok, 10)
		for _, r := range tok {
			assert.Contains(t, tokenAlphabet, string(r), "token %q contains %q", tok, r)
		}
		// No ambiguous characters ever appear.
		assert.NotContains(t, tok, "0")
		assert.NotContains(t, tok, "O")
		assert.NotContains(t, tok, "1")
		assert.NotContains(t, tok, "I")
		assert.NotContains(t, tok, "L")
		seen[tok] = true
	}
	assert.Len(t, seen, 100, "tokens must not repeat")
}

func TestHashGuestToken(t *testing.T) {
	h1 := HashGuestToken("ABC234DEFG")
	h2 := HashGuestToken("ABC234DEFG")
	h3 := HashGuestToken("ABC234DEFH")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
	assert.Equal(t, strings.ToLower(h1), h1, "hex digest is lowercase")
}
