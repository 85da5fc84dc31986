// Package handler contains the HTTP endpoints for the identity API.
package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusreport/identity-server/internal/api/http/middleware"
	"github.com/campusreport/identity-server/internal/logger"
	"github.com/campusreport/identity-server/internal/service"
)

// AuthService defines the account workflows the handlers expose.
type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (service.RegisterResult, error)
	VerifyEmail(ctx context.Context, token string) (service.VerifyResult, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	AnonymousLogin(ctx context.Context, code string) (service.AnonymousLoginResult, error)
	GetAccount(ctx context.Context, id uuid.UUID) (service.AccountView, error)
}

var _ AuthService = (*service.Auth)(nil)

// Auth handles the HTTP endpoints for registration, verification and login.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	MailerAddress    string `json:"mailerAddress"`
	MailerCredential string `json:"mailerCredential"`
}

type accountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    accountPayload `json:"user"`
}

// Register creates a pending account and sends the verification email.
func (h *Auth) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return respondBadBody(c)
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	result, err := h.authService.Register(c.Context(), service.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		MailerAddress:    req.MailerAddress,
		MailerCredential: req.MailerCredential,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		return respondError(c, err)
	}

	h.logger.Info("Auth handler: registration completed",
		"account_id", result.ID)

	return c.Status(fiber.StatusCreated).JSON(registerResponse{
		Message: "Registration successful! Please check your email to verify your account and receive your anonymous access code.",
		User: accountPayload{
			ID:    result.ID.String(),
			Email: result.Email,
		},
	})
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type verifyEmailResponse struct {
	Message       string         `json:"message"`
	AnonymousCode string         `json:"anonymousCode"`
	User          accountPayload `json:"user"`
}

// VerifyEmail consumes a verification token and returns the anonymous code.
func (h *Auth) VerifyEmail(c fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.Bind().Body(&req); err != nil {
		return respondBadBody(c)
	}

	h.logger.Debug("Auth handler: processing email verification request")

	result, err := h.authService.VerifyEmail(c.Context(), req.Token)
	if err != nil {
		h.logger.Error("Auth handler: email verification failed",
			"error", err.Error())
		return respondError(c, err)
	}

	h.logger.Info("Auth handler: email verification completed",
		"account_id", result.ID)

	return c.Status(fiber.StatusOK).JSON(verifyEmailResponse{
		Message:       "Email verified successfully! Your anonymous access code:",
		AnonymousCode: result.AnonymousCode,
		User: accountPayload{
			ID:    result.ID.String(),
			Email: result.Email,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    accountPayload `json:"user"`
}

// Login authenticates by email and password and returns a session token.
func (h *Auth) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return respondBadBody(c)
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	result, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return respondError(c, err)
	}

	h.logger.Info("Auth handler: login completed",
		"account_id", result.ID)

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		Message: "Login successful",
		Token:   result.SessionToken,
		User: accountPayload{
			ID:    result.ID.String(),
			Email: result.Email,
		},
	})
}

type anonymousLoginRequest struct {
	AnonymousCode string `json:"anonymousCode"`
}

// AnonymousLogin authenticates by anonymous code. The response carries no
// email so the code stays unlinkable to an identity.
func (h *Auth) AnonymousLogin(c fiber.Ctx) error {
	var req anonymousLoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return respondBadBody(c)
	}

	h.logger.Debug("Auth handler: processing anonymous login request")

	result, err := h.authService.AnonymousLogin(c.Context(), req.AnonymousCode)
	if err != nil {
		h.logger.Error("Auth handler: anonymous login failed",
			"error", err.Error())
		return respondError(c, err)
	}

	h.logger.Info("Auth handler: anonymous login completed",
		"account_id", result.ID)

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		Message: "Anonymous login successful",
		Token:   result.SessionToken,
		User: accountPayload{
			ID: result.ID.String(),
		},
	})
}

type meResponse struct {
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Verified bool   `json:"verified"`
	} `json:"user"`
}

// Me returns the account behind the session token.
func (h *Auth) Me(c fiber.Ctx) error {
	session, ok := middleware.SessionFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session",
		})
	}

	view, err := h.authService.GetAccount(c.Context(), session.AccountID)
	if err != nil {
		h.logger.Error("Auth handler: failed to get current account",
			"account_id", session.AccountID,
			"error", err.Error())
		return respondError(c, err)
	}

	var resp meResponse
	resp.User.ID = view.ID.String()
	resp.User.Email = view.Email
	resp.User.Verified = view.Verified

	return c.Status(fiber.StatusOK).JSON(resp)
}
