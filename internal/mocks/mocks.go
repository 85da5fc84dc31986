package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campusreport/identity-server/internal/model"
)

// Mailer is a mock of model.Mailer.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) SendVerification(ctx context.Context, mail model.VerificationMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(accountID uuid.UUID, email string) (string, error) {
	args := m.Called(accountID, email)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Validate(token string) (model.Session, error) {
	args := m.Called(token)
	return args.Get(0).(model.Session), args.Error(1)
}

// SecretHasher is a mock of model.SecretHasher.
type SecretHasher struct {
	mock.Mock
}

func (m *SecretHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *SecretHasher) Verify(plaintext, hash string) bool {
	args := m.Called(plaintext, hash)
	return args.Bool(0)
}

// CodeIssuer is a mock of anoncode.Issuer.
type CodeIssuer struct {
	mock.Mock
}

func (m *CodeIssuer) IssueUnique(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
