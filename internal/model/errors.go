package model

import "errors"

// Not-found sentinel shared by all store lookups.
var ErrNotFound = errors.New("not found")

// Registration input validation errors, surfaced verbatim to the caller.
var (
	ErrMissingFields    = errors.New("email, password and password confirmation are required")
	ErrMissingMailer    = errors.New("mailer address and credential are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrDomainRejected   = errors.New("email must belong to the institutional domain")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// Conflict errors. ErrEmailTaken is surfaced to the caller; ErrCodeCollision
// never is, it only drives the internal regeneration retry.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrCodeCollision      = errors.New("anonymous code already assigned")
	ErrCodeSpaceExhausted = errors.New("could not find a free anonymous code")
)

// Authentication errors carry deliberately low-information messages so that
// responses do not confirm whether an email or code exists.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrSessionExpired        = errors.New("session token expired")
	ErrSessionMalformed      = errors.New("session token malformed")
)

// ErrMailDelivery reports a failed verification email. The registration
// workflow rolls back the account before returning it.
var ErrMailDelivery = errors.New("failed to deliver verification email")
