package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength    = 16
	hashIterCount = 120_000
	hashKeyLength = 64
)

// HashPassword derives a PBKDF2-SHA512 hash with a fresh random salt and
// returns it encoded as "hex(salt):hex(digest)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), salt, hashIterCount, hashKeyLength, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword re-derives the digest with the embedded salt and compares it
// in constant time. A malformed stored hash verifies false, never panics.
func VerifyPassword(password, stored string) bool {
	salt, digest, ok := decodeStoredHash(stored)
	if !ok {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), salt, hashIterCount, hashKeyLength, sha512.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func decodeStoredHash(stored string) (salt, digest []byte, ok bool) {
	saltHex, digestHex, found := strings.Cut(stored, ":")
	if !found {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return nil, nil, false
	}
	digest, err = hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return nil, nil, false
	}
	return salt, digest, true
}
