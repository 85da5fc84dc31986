package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusreport/identity-server/internal/anoncode"
	"github.com/campusreport/identity-server/internal/logger"
	"github.com/campusreport/identity-server/internal/model"
	"github.com/campusreport/identity-server/internal/verification"
)

const minPasswordLength = 6

// maxPersistAttempts bounds how often the verification workflow regenerates
// after losing the code race at the store.
const maxPersistAttempts = 10

// Settings carries the policy knobs the workflows need.
type Settings struct {
	// DomainSuffix is the institutional email suffix registration requires,
	// e.g. "@cmr.edu.in".
	DomainSuffix string
	// VerificationTTL is how long a verification token stays consumable.
	VerificationTTL time.Duration
	// LinkBaseURL is the frontend origin the emailed link points at.
	LinkBaseURL string
}

// Auth implements the registration, verification and login workflows.
type Auth struct {
	accountStore model.AccountStore
	hasher       model.SecretHasher
	codeIssuer   anoncode.Issuer
	tokenManager model.TokenManager
	mailer       model.Mailer
	settings     Settings
	logger       *logger.Logger
}

// NewAuth creates the auth service with its injected collaborators.
func NewAuth(
	accountStore model.AccountStore,
	hasher model.SecretHasher,
	codeIssuer anoncode.Issuer,
	tokenManager model.TokenManager,
	mailer model.Mailer,
	settings Settings,
	logger *logger.Logger,
) *Auth {
	if settings.VerificationTTL <= 0 {
		settings.VerificationTTL = verification.DefaultTTL
	}
	return &Auth{
		accountStore: accountStore,
		hasher:       hasher,
		codeIssuer:   codeIssuer,
		tokenManager: tokenManager,
		mailer:       mailer,
		settings:     settings,
		logger:       logger,
	}
}

// RegisterInput is the registration payload. MailerAddress and
// MailerCredential configure the caller's own outbound transport for the
// verification email.
type RegisterInput struct {
	Email            string
	Password         string
	ConfirmPassword  string
	MailerAddress    string
	MailerCredential string
}

// RegisterResult returns the new account's public identity only.
type RegisterResult struct {
	ID    uuid.UUID
	Email string
}

// Register runs the registration workflow. Each gate aborts with its own
// error; after the account row exists, a mailer failure deletes it again so
// the caller never observes a partially registered state.
func (a *Auth) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	email := model.NormalizeEmail(input.Email)

	a.logger.Debug("Auth service: starting registration", "email", email)

	if input.Email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return RegisterResult{}, model.ErrMissingFields
	}
	if input.MailerAddress == "" || input.MailerCredential == "" {
		return RegisterResult{}, model.ErrMissingMailer
	}
	if input.Password != input.ConfirmPassword {
		return RegisterResult{}, model.ErrPasswordMismatch
	}
	if !strings.HasSuffix(email, a.settings.DomainSuffix) {
		return RegisterResult{}, model.ErrDomainRejected
	}
	if len(input.Password) < minPasswordLength {
		return RegisterResult{}, model.ErrPasswordTooShort
	}

	_, err := a.accountStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return RegisterResult{}, model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to check existing account",
			"email", email,
			"error", err.Error())
		return RegisterResult{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	verificationToken, err := verification.NewToken()
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to generate verification token: %w", err)
	}

	now := time.Now()
	expiry := verification.ExpiryFrom(now, a.settings.VerificationTTL)
	account := model.Account{
		ID:                 uuid.New(),
		Email:              email,
		Secret:             input.Password,
		Verified:           false,
		AnonymousCode:      nil,
		VerificationToken:  &verificationToken,
		VerificationExpiry: &expiry,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := a.accountStore.Create(ctx, account)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			// Lost the race to another registration of the same email.
			return RegisterResult{}, model.ErrEmailTaken
		}
		a.logger.Error("Auth service: failed to create account",
			"email", email,
			"error", err.Error())
		return RegisterResult{}, fmt.Errorf("failed to create account: %w", err)
	}

	mail := model.VerificationMail{
		FromAddress:    input.MailerAddress,
		FromCredential: input.MailerCredential,
		ToAddress:      input.MailerAddress,
		Link:           fmt.Sprintf("%s/verify-email?token=%s", a.settings.LinkBaseURL, verificationToken),
	}
	if err := a.mailer.SendVerification(ctx, mail); err != nil {
		a.logger.Error("Auth service: verification mail failed, rolling back account",
			"email", email,
			"error", err.Error())
		if deleteErr := a.accountStore.Delete(ctx, created.ID); deleteErr != nil {
			a.logger.Error("Auth service: rollback delete failed",
				"account_id", created.ID,
				"error", deleteErr.Error())
		}
		if errors.Is(err, model.ErrMailDelivery) {
			return RegisterResult{}, err
		}
		return RegisterResult{}, fmt.Errorf("%w: %w", model.ErrMailDelivery, err)
	}

	a.logger.Info("Auth service: registration completed",
		"email", email,
		"account_id", created.ID)

	return RegisterResult{ID: created.ID, Email: created.Email}, nil
}

// VerifyResult returns the verified account identity and its freshly
// assigned anonymous code.
type VerifyResult struct {
	ID            uuid.UUID
	Email         string
	AnonymousCode string
}

// VerifyEmail consumes a verification token and issues the anonymous code.
// Expired, unknown and already-consumed tokens are indistinguishable by
// design. The verified flag, the cleared token fields and the new code are
// persisted as one update; losing the code race at the store retries with a
// fresh code.
func (a *Auth) VerifyEmail(ctx context.Context, verificationToken string) (VerifyResult, error) {
	a.logger.Debug("Auth service: starting email verification")

	if verificationToken == "" {
		return VerifyResult{}, model.ErrInvalidOrExpiredToken
	}

	account, err := a.accountStore.GetByVerificationToken(ctx, verificationToken, time.Now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return VerifyResult{}, model.ErrInvalidOrExpiredToken
		}
		a.logger.Error("Auth service: failed to look up verification token",
			"error", err.Error())
		return VerifyResult{}, fmt.Errorf("failed to get account by verification token: %w", err)
	}

	var updated model.Account
	for attempt := 0; ; attempt++ {
		code, err := a.codeIssuer.IssueUnique(ctx)
		if err != nil {
			a.logger.Error("Auth service: failed to issue anonymous code",
				"account_id", account.ID,
				"error", err.Error())
			return VerifyResult{}, err
		}

		account.Verified = true
		account.AnonymousCode = &code
		account.VerificationToken = nil
		account.VerificationExpiry = nil

		updated, err = a.accountStore.Update(ctx, account)
		if err == nil {
			break
		}
		if errors.Is(err, model.ErrCodeCollision) && attempt < maxPersistAttempts-1 {
			a.logger.Debug("Auth service: anonymous code collided, regenerating",
				"account_id", account.ID)
			continue
		}
		a.logger.Error("Auth service: failed to persist verification",
			"account_id", account.ID,
			"error", err.Error())
		if errors.Is(err, model.ErrCodeCollision) {
			return VerifyResult{}, model.ErrCodeSpaceExhausted
		}
		return VerifyResult{}, fmt.Errorf("failed to update account: %w", err)
	}

	a.logger.Info("Auth service: email verified and anonymous code assigned",
		"account_id", updated.ID)

	return VerifyResult{
		ID:            updated.ID,
		Email:         updated.Email,
		AnonymousCode: *updated.AnonymousCode,
	}, nil
}

// LoginResult is the password-path login response.
type LoginResult struct {
	SessionToken string
	ID           uuid.UUID
	Email        string
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same ErrInvalidCredentials so responses do not
// confirm account existence.
func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = model.NormalizeEmail(email)

	a.logger.Debug("Auth service: starting password login", "email", email)

	if email == "" || password == "" {
		return LoginResult{}, model.ErrInvalidCredentials
	}

	account, err := a.accountStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoginResult{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get account by email",
			"email", email,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if !account.Active || !a.hasher.Verify(password, account.SecretHash) {
		return LoginResult{}, model.ErrInvalidCredentials
	}

	sessionToken, err := a.issueSession(ctx, account)
	if err != nil {
		return LoginResult{}, err
	}

	a.logger.Info("Auth service: password login completed", "account_id", account.ID)

	return LoginResult{SessionToken: sessionToken, ID: account.ID, Email: account.Email}, nil
}

// AnonymousLoginResult omits the email on purpose: the anonymous path must
// not link the code back to an identity, even for the caller itself.
type AnonymousLoginResult struct {
	SessionToken string
	ID           uuid.UUID
}

// AnonymousLogin authenticates by anonymous code alone.
func (a *Auth) AnonymousLogin(ctx context.Context, code string) (AnonymousLoginResult, error) {
	a.logger.Debug("Auth service: starting anonymous login")

	code = model.NormalizeCode(code)
	if code == "" {
		return AnonymousLoginResult{}, model.ErrInvalidCredentials
	}

	account, err := a.accountStore.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AnonymousLoginResult{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get account by code",
			"error", err.Error())
		return AnonymousLoginResult{}, fmt.Errorf("failed to get account by code: %w", err)
	}

	if !account.Active {
		return AnonymousLoginResult{}, model.ErrInvalidCredentials
	}

	sessionToken, err := a.issueSession(ctx, account)
	if err != nil {
		return AnonymousLoginResult{}, err
	}

	a.logger.Info("Auth service: anonymous login completed", "account_id", account.ID)

	return AnonymousLoginResult{SessionToken: sessionToken, ID: account.ID}, nil
}

// AccountView is the public projection of an account.
type AccountView struct {
	ID       uuid.UUID
	Email    string
	Verified bool
}

// GetAccount returns the public view of an account by id.
func (a *Auth) GetAccount(ctx context.Context, id uuid.UUID) (AccountView, error) {
	account, err := a.accountStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return AccountView{}, model.ErrNotFound
		}
		return AccountView{}, fmt.Errorf("failed to get account by id: %w", err)
	}

	return AccountView{ID: account.ID, Email: account.Email, Verified: account.Verified}, nil
}

func (a *Auth) issueSession(ctx context.Context, account model.Account) (string, error) {
	if err := a.accountStore.UpdateLastLogin(ctx, account.ID, time.Now()); err != nil {
		a.logger.Error("Auth service: failed to update last login",
			"account_id", account.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to update last login: %w", err)
	}

	sessionToken, err := a.tokenManager.Issue(account.ID, account.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session token",
			"account_id", account.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return sessionToken, nil
}
