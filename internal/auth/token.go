package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the entropy of a session token. 32 bytes puts collisions
// beyond the birthday bound on a 256-bit space.
const TokenBytes = 32

// NewToken returns a cryptographically random hex string of 2*n characters.
func NewToken(n int) (string, error) {
	if n <= 0 {
		n = TokenBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
