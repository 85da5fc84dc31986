// Package verification generates the single-use tokens that prove control
// of a registered email address.
package verification

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenBytes is the raw entropy per token. 32 bytes renders as 64 hex
// characters, well above the 128-bit floor the token needs.
const tokenBytes = 32

// DefaultTTL is how long a token stays consumable.
const DefaultTTL = 24 * time.Hour

// NewToken generates a random verification token as a fixed-length hex
// string.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// ExpiryFrom computes the token expiry for a token issued at the given time.
func ExpiryFrom(issuedAt time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return issuedAt.Add(ttl)
}
