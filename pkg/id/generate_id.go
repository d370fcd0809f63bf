package id

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// HashIdentifier derives a stable 32-hex identifier from an arbitrary
// string, used for rate limiting unauthenticated clients by IP without
// storing the raw address.
func HashIdentifier(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
