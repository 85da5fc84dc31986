package model

import "context"

// Mailer delivers the verification link to a freshly registered account.
// The from address and credential come from the registering caller, not from
// platform configuration: the outbound transport is caller-credentialed by
// design (flagged as a liability in DESIGN.md, preserved as observed).
type Mailer interface {
	SendVerification(ctx context.Context, mail VerificationMail) error
}

// VerificationMail is the payload handed to the external mail transport. It
// carries the verification link only; the anonymous code does not exist yet
// at registration time and is delivered by the verification page instead.
type VerificationMail struct {
	FromAddress    string
	FromCredential string
	ToAddress      string
	Link           string
}
