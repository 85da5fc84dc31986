// Package anoncode issues the permanent anonymous login codes handed out
// after email verification.
package anoncode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/campusreport/identity-server/internal/model"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// maxAttempts bounds the free-code probe so a pathological store cannot
	// spin the loop forever.
	maxAttempts = 10
)

// Issuer hands out anonymous codes that are free at generation time.
type Issuer interface {
	IssueUnique(ctx context.Context) (string, error)
}

var _ Issuer = (*Generator)(nil)

// Generator builds LLL-DDD-LLL candidates and probes the account store for
// uniqueness. The probe-then-persist pair is not atomic: the store's unique
// index on the code column is the backstop, and callers retry on
// ErrCodeCollision from the persist step.
type Generator struct {
	store model.AccountStore
}

// NewGenerator creates a Generator backed by the given store.
func NewGenerator(store model.AccountStore) *Generator {
	return &Generator{store: store}
}

// Generate builds one candidate code of the form LLL-DDD-LLL, letters and
// digits drawn uniformly from an unpredictable source. The space is
// 26^6 * 10^3, roughly 3.1e11 codes.
func (g *Generator) Generate() (string, error) {
	var sb strings.Builder

	groups := []string{letters, digits, letters}
	for i, alphabet := range groups {
		if i > 0 {
			sb.WriteByte('-')
		}
		for j := 0; j < 3; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to draw random index: %w", err)
			}
			sb.WriteByte(alphabet[n.Int64()])
		}
	}

	return sb.String(), nil
}

// IssueUnique generates candidates until one is not held by any account,
// giving up with ErrCodeSpaceExhausted after maxAttempts. The returned code
// is free at probe time only; persisting it may still fail with
// ErrCodeCollision under a concurrent verification.
func (g *Generator) IssueUnique(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := g.Generate()
		if err != nil {
			return "", err
		}

		_, err = g.store.GetByCode(ctx, code)
		if errors.Is(err, model.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe code: %w", err)
		}
		// Taken, draw again.
	}

	return "", model.ErrCodeSpaceExhausted
}
