package ringcentral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"surplus-restock-notifier/internal/card"
	"surplus-restock-notifier/pkg/joberror"
)

const jwtGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// ClientConfig holds the chat platform credentials and destination.
type ClientConfig struct {
	ServerURL    string
	ClientID     string
	ClientSecret string
	JWT          string
	ChatID       string
	HTTPTimeout  time.Duration
}

// Client talks to the RingCentral team messaging API. Sessions are not reused:
// every send logs in first.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// Session is a short-lived authenticated session.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewClient creates a chat client from config.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ServerURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("chat server URL and client credentials are required")
	}
	if cfg.JWT == "" {
		return nil, fmt.Errorf("chat JWT credential is required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// ChatID returns the fixed destination channel identifier.
func (c *Client) ChatID() string {
	return c.cfg.ChatID
}

// Login establishes a fresh session through the JWT bearer grant.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	form := url.Values{}
	form.Set("grant_type", jwtGrantType)
	form.Set("assertion", c.cfg.JWT)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.ServerURL+"/restapi/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, joberror.Delivery("failed to build login request").Wrap(err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, joberror.Delivery("failed to log in to chat platform").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, joberror.Delivery(fmt.Sprintf("chat login returned %d: %s", resp.StatusCode, body))
	}

	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, joberror.Delivery("failed to decode login response").Wrap(err)
	}
	return &s, nil
}

// PostText posts a plain-text message to the destination chat, appending the
// fixed trailing divider.
func (c *Client) PostText(ctx context.Context, s *Session, text string) error {
	payload := map[string]string{
		"text": text + "\n---\n",
	}
	path := fmt.Sprintf("/team-messaging/v1/chats/%s/posts", c.cfg.ChatID)
	return c.send(ctx, s, http.MethodPost, path, payload, nil)
}

// PostCard posts a structured document to the destination chat and returns the
// created card's identifier.
func (c *Client) PostCard(ctx context.Context, s *Session, doc card.Document) (string, error) {
	path := fmt.Sprintf("/team-messaging/v1/chats/%s/adaptive-cards", c.cfg.ChatID)

	var created struct {
		ID string `json:"id"`
	}
	if err := c.send(ctx, s, http.MethodPost, path, doc, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateCard replaces a previously posted card in place.
func (c *Client) UpdateCard(ctx context.Context, s *Session, cardID string, doc card.Document) error {
	path := fmt.Sprintf("/team-messaging/v1/adaptive-cards/%s", cardID)
	return c.send(ctx, s, http.MethodPut, path, doc, nil)
}

// send issues one authenticated JSON request and optionally decodes the response.
func (c *Client) send(ctx context.Context, s *Session, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return joberror.Delivery("failed to encode chat payload").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.ServerURL+path, bytes.NewReader(body))
	if err != nil {
		return joberror.Delivery("failed to build chat request").Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return joberror.Delivery("failed to reach chat platform").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[RingCentral] %s %s returned %d", method, path, resp.StatusCode)
		return joberror.Delivery(fmt.Sprintf("chat request returned %d: %s", resp.StatusCode, raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return joberror.Delivery("failed to decode chat response").Wrap(err)
		}
	}
	return nil
}
