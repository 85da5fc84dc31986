package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreport/identity-server/internal/model"
)

func TestNewSMTPMailer_DefaultTimeout(t *testing.T) {
	m := NewSMTPMailer("smtp.example.edu", 587, 0)
	assert.Equal(t, defaultTimeout, m.timeout)

	m = NewSMTPMailer("smtp.example.edu", 587, 5*time.Second)
	assert.Equal(t, 5*time.Second, m.timeout)
}

func TestSMTPMailer_InvalidAddresses(t *testing.T) {
	m := NewSMTPMailer("smtp.example.edu", 587, time.Second)

	err := m.SendVerification(context.Background(), model.VerificationMail{
		FromAddress:    "not an address",
		FromCredential: "app-password",
		ToAddress:      "a@cmr.edu.in",
		Link:           "http://localhost:5173/verify-email?token=x",
	})
	require.ErrorIs(t, err, model.ErrMailDelivery)

	err = m.SendVerification(context.Background(), model.VerificationMail{
		FromAddress:    "sender@gmail.com",
		FromCredential: "app-password",
		ToAddress:      "not an address",
		Link:           "http://localhost:5173/verify-email?token=x",
	})
	require.ErrorIs(t, err, model.ErrMailDelivery)
}

func TestVerificationBody_CarriesLinkOnly(t *testing.T) {
	body := verificationBody("http://localhost:5173/verify-email?token=abc")

	assert.Contains(t, body, "http://localhost:5173/verify-email?token=abc")
	assert.NotContains(t, body, "anonymousCode")
}
