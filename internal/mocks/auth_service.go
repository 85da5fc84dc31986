package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campusreport/identity-server/internal/service"
)

// AuthService is a mock of the handler-facing auth service.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, input service.RegisterInput) (service.RegisterResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(service.RegisterResult), args.Error(1)
}

func (m *AuthService) VerifyEmail(ctx context.Context, token string) (service.VerifyResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(service.VerifyResult), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.LoginResult), args.Error(1)
}

func (m *AuthService) AnonymousLogin(ctx context.Context, code string) (service.AnonymousLoginResult, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(service.AnonymousLoginResult), args.Error(1)
}

func (m *AuthService) GetAccount(ctx context.Context, id uuid.UUID) (service.AccountView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.AccountView), args.Error(1)
}
