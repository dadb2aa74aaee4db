package access_test

import (
	"sync"
	"testing"

	"asset-vault/internal/access"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareToken_FormatAndUniqueness(t *testing.T) {
	const n = 500

	tokens := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := access.NewShareToken()
			require.NoError(t, err)
			tokens <- token
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[string]struct{}, n)
	for token := range tokens {
		assert.Len(t, token, access.ShareTokenLength)
		assert.True(t, access.ValidShareToken(token))
		_, dup := seen[token]
		assert.False(t, dup, "повторный токен %s", token)
		seen[token] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestValidShareToken(t *testing.T) {
	assert.True(t, access.ValidShareToken("0123456789abcdef0123456789abcdef"))
	assert.False(t, access.ValidShareToken(""))
	assert.False(t, access.ValidShareToken("0123456789ABCDEF0123456789ABCDEF"))
	assert.False(t, access.ValidShareToken("0123456789abcdef"))
	assert.False(t, access.ValidShareToken("0123456789abcdef0123456789abcdeg"))
}
