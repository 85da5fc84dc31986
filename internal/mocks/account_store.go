// Package mocks contains testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campusreport/identity-server/internal/model"
)

// AccountStore is a mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByCode(ctx context.Context, code string) (model.Account, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) GetByVerificationToken(ctx context.Context, token string, now time.Time) (model.Account, error) {
	args := m.Called(ctx, token, now)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) Update(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
