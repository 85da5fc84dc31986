package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campusreport/identity-server/internal/model"
)

// Claims represents session token claims with account identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

// JWT implements TokenManager backed by symmetric HMAC. Tokens are
// self-contained: validation consults no server-side state and there is no
// revocation, a token stays usable until its natural expiry.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// NewJWT creates a new JWT token manager with the provided secret key and
// session TTL.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl}
}

// Issue creates a signed session token embedding the account identity,
// issue time and expiry.
func (j *JWT) Issue(accountID uuid.UUID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		AccountID: accountID,
		Email:     email,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Validate verifies the signature and expiry and extracts the session.
// Expired tokens surface ErrSessionExpired; anything else that fails to
// parse or verify surfaces ErrSessionMalformed.
func (j *JWT) Validate(tokenString string) (model.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Session{}, model.ErrSessionExpired
		}
		return model.Session{}, model.ErrSessionMalformed
	}
	if !token.Valid {
		return model.Session{}, model.ErrSessionMalformed
	}
	if claims.AccountID == uuid.Nil || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.Session{}, model.ErrSessionMalformed
	}

	return model.Session{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
