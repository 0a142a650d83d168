package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordVerifies(t *testing.T) {
	stored, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("Secret123!", stored))
	assert.False(t, VerifyPassword("Secret123", stored))
	assert.False(t, VerifyPassword("", stored))
}

func TestHashPasswordFreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must use fresh salts")
	assert.True(t, VerifyPassword("same-password", first))
	assert.True(t, VerifyPassword("same-password", second))
}

func TestHashPasswordEncoding(t *testing.T) {
	stored, err := HashPassword("pw")
	require.NoError(t, err)

	parts := strings.Split(stored, ":")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 2*saltLength)
	assert.Len(t, parts[1], 2*hashKeyLength)
}

func TestVerifyPasswordMalformedStoredHash(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"no separator": "deadbeef",
		"bad salt hex": "zzzz:deadbeef",
		"bad digest":   "deadbeef:nothex",
		"empty salt":   ":deadbeef",
		"empty digest": "deadbeef:",
		"only colon":   ":",
		"double colon": "dead:beef:cafe",
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, VerifyPassword("whatever", stored))
		})
	}
}
