package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts. Lookups operate
// on normalized values: email lowercase, anonymous code uppercase.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByCode(ctx context.Context, code string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	// GetByVerificationToken matches an account whose verification token
	// equals token and whose expiry is after now.
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, account Account) (Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Account represents a registered identity and its credentials.
//
// AnonymousCode stays nil until email verification completes; once assigned
// it is unique across all accounts and never changes. VerificationToken and
// VerificationExpiry are present only while the account is unverified and
// are cleared in the same write that sets Verified.
type Account struct {
	ID    uuid.UUID
	Email string

	// Secret carries a plaintext password in flight to the store, which
	// hashes it into SecretHash before persisting. It is never stored or
	// returned by reads.
	Secret     string
	SecretHash string

	AnonymousCode       *string
	Verified            bool
	VerificationToken   *string
	VerificationExpiry  *time.Time
	LastAuthenticatedAt *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NormalizeEmail lowercases and trims an email for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode uppercases and trims an anonymous code for lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
