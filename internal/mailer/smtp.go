// Package mailer delivers verification links over SMTP.
//
// The transport authenticates with the address and credential the
// registering user supplied, not with platform credentials. Storing and
// replaying a user's own mail credential is a questionable inherited design
// (see DESIGN.md); it is kept because the registration contract depends on
// it, not because it is endorsed.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/campusreport/identity-server/internal/model"
)

const defaultTimeout = 15 * time.Second

var _ model.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends verification email through a fixed SMTP host with
// per-request sender credentials. The timeout bounds the whole
// dial-and-send exchange so an unresponsive host cannot stall a
// registration request indefinitely.
type SMTPMailer struct {
	host    string
	port    int
	timeout time.Duration
}

// NewSMTPMailer creates an SMTPMailer for the given host and port.
func NewSMTPMailer(host string, port int, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SMTPMailer{host: host, port: port, timeout: timeout}
}

// SendVerification mails the verification link to the recipient. Any
// failure, from bad addresses to rejected credentials to an unreachable
// host, surfaces as a wrapped ErrMailDelivery so the registration workflow
// can roll back without leaking transport detail to the caller.
func (s *SMTPMailer) SendVerification(ctx context.Context, m model.VerificationMail) error {
	msg := mail.NewMsg()
	if err := msg.From(m.FromAddress); err != nil {
		return fmt.Errorf("%w: invalid sender address: %w", model.ErrMailDelivery, err)
	}
	if err := msg.To(m.ToAddress); err != nil {
		return fmt.Errorf("%w: invalid recipient address: %w", model.ErrMailDelivery, err)
	}
	msg.Subject("Verify your email address")
	msg.SetBodyString(mail.TypeTextHTML, verificationBody(m.Link))

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.FromAddress),
		mail.WithPassword(m.FromCredential),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrMailDelivery, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", model.ErrMailDelivery, err)
	}

	return nil
}

// verificationBody renders the email. The link is all the mail carries:
// the anonymous code does not exist yet and is shown by the verification
// page after the link is followed.
func verificationBody(link string) string {
	return fmt.Sprintf(`<h2>Confirm your registration</h2>
<p>Click the link below within 24 hours to verify your email address and
receive your anonymous access code.</p>
<p><a href="%s">%s</a></p>
<p>If you did not register, you can ignore this message.</p>`, link, link)
}
