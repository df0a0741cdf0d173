// Package at is a direct HTTP client for the Africa's Talking REST APIs:
// airtime, SMS, voice calls, mobile data bundles, WhatsApp, and account
// balance queries. Requests are authenticated with the application API key;
// phone numbers and keys are masked before they reach logs.
package at

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sautihq/sauti/internal/config"
	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/redact"
)

// API hosts. The core and voice APIs have sandbox variants; the bundles and
// chat APIs are live-only.
const (
	liveAPIBase      = "https://api.africastalking.com"
	sandboxAPIBase   = "https://api.sandbox.africastalking.com"
	liveVoiceBase    = "https://voice.africastalking.com"
	sandboxVoiceBase = "https://voice.sandbox.africastalking.com"
	bundlesBase      = "https://bundles.africastalking.com"
	chatBase         = "https://chat.africastalking.com"
)

// Client talks to the Africa's Talking APIs.
type Client struct {
	username string
	apiKey   string

	apiBase     string
	voiceBase   string
	bundlesBase string
	chatBase    string

	dataProduct string
	waNumber    string

	httpClient *http.Client
	log        *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs points every API family at the given hosts. Used in tests to
// target an httptest server.
func WithBaseURLs(api, voice, bundles, chat string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimSuffix(api, "/")
		c.voiceBase = strings.TrimSuffix(voice, "/")
		c.bundlesBase = strings.TrimSuffix(bundles, "/")
		c.chatBase = strings.TrimSuffix(chat, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client from config. The sandbox environment selects the
// provider's test hosts for the API families that have them.
func New(cfg config.ATConfig, log *logging.Logger, opts ...Option) *Client {
	c := &Client{
		username:    cfg.Username,
		apiKey:      cfg.APIKey,
		apiBase:     liveAPIBase,
		voiceBase:   liveVoiceBase,
		bundlesBase: bundlesBase,
		chatBase:    chatBase,
		dataProduct: cfg.DataProduct,
		waNumber:    cfg.WhatsApp,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         log.Sub("at"),
	}
	if cfg.Environment == "sandbox" {
		c.apiBase = sandboxAPIBase
		c.voiceBase = sandboxVoiceBase
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log.Debug().
		Str("username", c.username).
		Str("apiKey", redact.APIKey(c.apiKey)).
		Str("env", cfg.Environment).
		Msg("credentials loaded")
	return c
}

// Username returns the configured account username.
func (c *Client) Username() string { return c.username }

// postForm sends a form-encoded request and returns the response body.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// postJSON sends a JSON request and returns the response body.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// get sends a GET request and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("path", req.URL.Path).
			Msg("provider rejected request")
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}
