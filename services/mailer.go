package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Mailer delivers HTML email. Failures are reported to the caller, which
// decides whether they matter: note CRUD swallows them, the reminder batch
// keeps the reminder in place.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

const brevoBaseURL = "https://api.brevo.com/v3"

// BrevoMailer sends transactional email through the Brevo SMTP API.
type BrevoMailer struct {
	client *resty.Client
	apiKey string
	sender string
	log    zerolog.Logger
}

func NewBrevoMailer(apiKey, sender string, log zerolog.Logger) *BrevoMailer {
	client := resty.New().
		SetBaseURL(brevoBaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("accept", "application/json").
		SetTimeout(15 * time.Second)

	return &BrevoMailer{
		client: client,
		apiKey: apiKey,
		sender: sender,
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoRecipient   `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

func (m *BrevoMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.apiKey == "" {
		// Unconfigured mail is skipped, not failed, so local setups work
		// without a Brevo account.
		m.log.Warn().Str("to", to).Msg("BREVO_API_KEY missing: skip email")
		return nil
	}

	body := brevoSendRequest{
		Sender:      brevoRecipient{Email: m.sender, Name: "NoteFlow"},
		To:          []brevoRecipient{{Email: to}},
		Subject:     subject,
		HTMLContent: html,
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("api-key", m.apiKey).
		SetBody(&body).
		Post("/smtp/email")
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		m.log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("brevo error")
		return fmt.Errorf("brevo status %d", resp.StatusCode())
	}
	return nil
}
