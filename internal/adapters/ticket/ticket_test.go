package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint_Uniqueness(t *testing.T) {
	m := NewMinter("http://tickets.example.com")

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		link, err := m.Mint()
		require.NoError(t, err)
		_, dup := seen[link]
		require.False(t, dup, "duplicate ticket link after %d mints: %s", i, link)
		seen[link] = struct{}{}
	}
}

func TestMint_Format(t *testing.T) {
	m := NewMinter("http://tickets.example.com/")

	link, err := m.Mint()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "http://tickets.example.com/ticket/"))

	token := strings.TrimPrefix(link, "http://tickets.example.com/ticket/")
	// 16 bytes base64url without padding is 22 chars.
	assert.Len(t, token, 22)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
}

func TestEncodeQR_Deterministic(t *testing.T) {
	m := NewMinter("http://tickets.example.com")

	link, err := m.Mint()
	require.NoError(t, err)

	first, err := m.EncodeQR(link)
	require.NoError(t, err)
	second, err := m.EncodeQR(link)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same link must yield a bit-identical payload")
	assert.True(t, strings.HasPrefix(first, "data:image/png;base64,"))
}

func TestEncodeQR_DiffersPerLink(t *testing.T) {
	m := NewMinter("http://tickets.example.com")

	a, err := m.EncodeQR("http://tickets.example.com/ticket/aaaa")
	require.NoError(t, err)
	b, err := m.EncodeQR("http://tickets.example.com/ticket/bbbb")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
