package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ngo-connect-backend/internal/pkg/retry"
)

const brevoAPI = "https://api.brevo.com"

// BrevoSendRequest is the Brevo v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender sends transactional mail. A nil Sender disables mail.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, firstName string, isAdmin bool) error
}

// BrevoClient sends mail through the Brevo (Sendinblue) API.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	BaseURL  string
	Client   *http.Client
	Retry    retry.Policy
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@ngoconnect.africa"
}

func (c *BrevoClient) endpoint() string {
	base := brevoAPI
	if c.BaseURL != "" {
		base = strings.TrimRight(c.BaseURL, "/")
	}
	return base + "/v3/smtp/email"
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body, err := json.Marshal(BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "NGO Connect"},
		To:          []BrevoContact{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return err
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return retry.Do(ctx, c.Retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("api-key", c.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		resp, err := c.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("brevo send: %w", &retry.StatusError{StatusCode: resp.StatusCode})
		}
		return nil
	})
}

// SendWelcome mails a new account. Admins are pointed at the organisation
// profile, volunteers at their skills.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, firstName string, isAdmin bool) error {
	if c.APIKey == "" {
		return nil
	}
	if firstName == "" {
		firstName = "there"
	}
	return c.send(ctx, toEmail, "Welcome to NGO Connect", Layout(welcomeContent(firstName, isAdmin)))
}
