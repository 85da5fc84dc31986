package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and validates signed session tokens. Validation is
// stateless: a validly-signed, unexpired token is sufficient and there is no
// revocation list.
type TokenManager interface {
	Issue(accountID uuid.UUID, email string) (string, error)
	Validate(token string) (Session, error)
}

// Session is the identity carried by a validated session token.
type Session struct {
	AccountID uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
