// Package mailer delivers verification emails through the Brevo
// transactional email API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

type Brevo struct {
	apiKey     string
	fromEmail  string
	fromName   string
	verifyURL  string
	httpClient *http.Client
	configured bool
}

// NewBrevo builds a Brevo client. The client is marked unconfigured when
// any credential is missing; SendVerification then fails fast instead of
// calling the API.
func NewBrevo(apiKey, fromEmail, fromName, verifyURL string) *Brevo {
	b := &Brevo{
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		b.apiKey = apiKey
		b.fromEmail = fromEmail
		b.fromName = fromName
		b.configured = true
	}
	return b
}

func (b *Brevo) IsConfigured() bool {
	return b.configured
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// SendVerification emails a verification link carrying tok to toEmail.
func (b *Brevo) SendVerification(ctx context.Context, toEmail, tok string) error {
	if !b.configured {
		return fmt.Errorf("mailer not configured, verification email to %s skipped", toEmail)
	}

	link := fmt.Sprintf("%s?token=%s", b.verifyURL, url.QueryEscape(tok))
	reqBody := sendEmailReq{
		Sender:  map[string]string{"email": b.fromEmail, "name": b.fromName},
		To:      []map[string]string{{"email": toEmail}},
		Subject: "Verify your email address",
		HTMLContent: fmt.Sprintf(
			`<p>Welcome! Please confirm your email address by clicking the link below.</p><p><a href=%q>Verify email</a></p><p>The link expires in 30 minutes.</p>`,
			link,
		),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating email request: %w", err)
	}
	httpReq.Header.Set("api-key", b.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
			return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("brevo API error: status %d, body: %v", resp.StatusCode, errorBody)
	}

	return nil
}
