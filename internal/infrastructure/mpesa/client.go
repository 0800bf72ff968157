package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"ngo-connect-backend/internal/pkg/retry"

	"golang.org/x/oauth2"
)

const (
	SandboxURL    = "https://sandbox.safaricom.co.ke"
	ProductionURL = "https://api.safaricom.co.ke"

	// tokens are refreshed this long before Safaricom says they expire
	tokenEarlyExpiry = 5 * time.Minute
)

var errTokenRejected = errors.New("mpesa qr: access token rejected")

// QRRequest is the body of the Daraja dynamic QR endpoint.
type QRRequest struct {
	MerchantName string `json:"MerchantName"`
	RefNo        string `json:"RefNo"`
	Amount       string `json:"Amount"`
	TrxCode      string `json:"TrxCode"`
	CPI          string `json:"CPI"`
	Size         string `json:"Size"`
}

type qrResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	QRCode              string `json:"QRCode"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// Client talks to the Safaricom Daraja API with a cached client-credentials token.
type Client struct {
	ConsumerKey    string
	ConsumerSecret string
	BaseURL        string
	HTTP           *http.Client
	Retry          retry.Policy

	mu    sync.Mutex
	token *oauth2.Token
}

func New(key, secret string, sandbox bool, timeout time.Duration) *Client {
	base := ProductionURL
	if sandbox {
		base = SandboxURL
	}
	return &Client{
		ConsumerKey:    key,
		ConsumerSecret: secret,
		BaseURL:        base,
		HTTP:           &http.Client{Timeout: timeout},
		Retry:          retry.DefaultPolicy,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	return c.HTTP
}

// accessToken returns the cached token while it is valid, otherwise fetches
// a new one bound to ctx. Concurrent callers share one fetch.
func (c *Client) accessToken(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok, err := oauth2.ReuseTokenSourceWithExpiry(c.token, credentialsSource{ctx: ctx, c: c}, tokenEarlyExpiry).Token()
	if err != nil {
		return nil, err
	}
	c.token = tok
	return tok, nil
}

// dropToken forgets stale if it is still the cached token.
func (c *Client) dropToken(stale *oauth2.Token) {
	c.mu.Lock()
	if c.token == stale {
		c.token = nil
	}
	c.mu.Unlock()
}

// credentialsSource fetches a fresh token on every call.
type credentialsSource struct {
	ctx context.Context
	c   *Client
}

func (s credentialsSource) Token() (*oauth2.Token, error) {
	c := s.c
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, strings.TrimRight(c.BaseURL, "/")+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.ConsumerKey, c.ConsumerSecret)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("mpesa token: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mpesa token: %w", &retry.StatusError{StatusCode: resp.StatusCode, Body: string(raw)})
	}
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("mpesa token: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, errors.New("mpesa token: empty access token")
	}
	secs, err := tr.ExpiresIn.Int64()
	if err != nil || secs <= 0 {
		secs = 3599
	}
	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Duration(secs) * time.Second),
	}, nil
}

// GenerateQR returns the base64 PNG produced by Daraja.
func (c *Client) GenerateQR(ctx context.Context, in QRRequest) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	var out qrResponse
	err = retry.Do(ctx, c.Retry, func(ctx context.Context) error {
		tok, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+"/mpesa/qrcode/v1/generate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		tok.SetAuthHeader(req)
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient().Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			// revoked or rotated upstream; the next attempt fetches a new token
			c.dropToken(tok)
			return errTokenRejected
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("mpesa qr: %w", &retry.StatusError{StatusCode: resp.StatusCode, Body: string(raw)})
		}
		return json.Unmarshal(raw, &out)
	})
	if err != nil {
		return "", err
	}
	if out.QRCode == "" {
		return "", fmt.Errorf("mpesa qr: no QR code in response (%s)", out.ResponseDescription)
	}
	return out.QRCode, nil
}
