package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusreport/identity-server/internal/api/http/handler"
	"github.com/campusreport/identity-server/internal/api/http/middleware"
	"github.com/campusreport/identity-server/internal/logger"
	"github.com/campusreport/identity-server/internal/mocks"
	"github.com/campusreport/identity-server/internal/model"
	"github.com/campusreport/identity-server/internal/service"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	return p.err
}

func newTestRouter(authService *mocks.AuthService, tokenManager *mocks.TokenManager, db Pinger) *fiber.App {
	log := logger.NewDiscard()
	return New(
		handler.NewAuth(authService, log),
		middleware.NewAuthenticate(tokenManager, log),
		middleware.NewLogging(log),
		db,
	)
}

func TestRouter_Healthz(t *testing.T) {
	t.Run("pool reachable", func(t *testing.T) {
		app := newTestRouter(&mocks.AuthService{}, &mocks.TokenManager{}, &fakePinger{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("pool down", func(t *testing.T) {
		app := newTestRouter(&mocks.AuthService{}, &mocks.TokenManager{}, &fakePinger{err: errors.New("connection refused")})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestRouter_MeProtected(t *testing.T) {
	accountID := uuid.New()

	t.Run("no token", func(t *testing.T) {
		app := newTestRouter(&mocks.AuthService{}, &mocks.TokenManager{}, &fakePinger{})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		authService := &mocks.AuthService{}
		tokenManager := &mocks.TokenManager{}

		tokenManager.On("Validate", "session-token").Return(model.Session{
			AccountID: accountID,
			Email:     "a@cmr.edu.in",
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		authService.On("GetAccount", mock.Anything, accountID).Return(service.AccountView{
			ID:       accountID,
			Email:    "a@cmr.edu.in",
			Verified: true,
		}, nil)

		app := newTestRouter(authService, tokenManager, &fakePinger{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer session-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var body struct {
			User struct {
				ID       string `json:"id"`
				Email    string `json:"email"`
				Verified bool   `json:"verified"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, accountID.String(), body.User.ID)
		assert.Equal(t, "a@cmr.edu.in", body.User.Email)
		assert.True(t, body.User.Verified)
	})
}
