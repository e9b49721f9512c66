package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
	}
}

// SendDigest sends the weekly progress digest. In development the email is
// only logged.
func (s *EmailService) SendDigest(ctx context.Context, email string, digest *Digest) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "weekly_digest", "to", email, "subject", digest.Subject)
		slog.Debug("weekly digest body", "to", email, "text", digest.Text)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: digest.Subject,
		Html:    digest.HTML,
		Text:    digest.Text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "weekly_digest", "to", email)
	}
	return err
}
