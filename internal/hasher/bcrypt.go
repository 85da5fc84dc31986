// Package hasher provides the salted one-way password transform used by the
// credential store and the login path.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusreport/identity-server/internal/model"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

var _ model.SecretHasher = (*Bcrypt)(nil)

// Bcrypt implements SecretHasher on the bcrypt KDF. Each Hash call salts
// freshly, so hashing the same plaintext twice yields different outputs.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a Bcrypt hasher with the given cost. Costs outside the
// range bcrypt accepts fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash derives a salted hash from the plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches the hash. It recomputes with the
// salt embedded in the hash and never reverses it.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
