package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/questlogapp/questlog-server/internal/ratelimit"
)

const (
	defaultAPIURL  = "https://api.igdb.com/v4"
	defaultAuthURL = "https://id.twitch.tv/oauth2/token"

	// IGDB allows 4 requests per second per client id.
	defaultRPS   = 4.0
	defaultBurst = 4

	defaultTimeout = 30 * time.Second

	// How long to back off before the single retry after a 429.
	retryDelay = time.Second
)

// Config holds Twitch API credentials and optional endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	APIURL       string // defaults to the public IGDB endpoint
	AuthURL      string // defaults to the Twitch oauth endpoint
}

// Client is a rate-limited IGDB API client. Access tokens are obtained via
// the Twitch client-credentials flow and refreshed transparently.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	clientID     string
	clientSecret string
	apiURL       string
	authURL      string

	mu           sync.Mutex
	accessToken  string
	tokenExpires time.Time
}

// New creates a new IGDB client.
func New(cfg Config, logger *slog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:      ratelimit.New(defaultRPS, defaultBurst),
		logger:       logger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiURL:       apiURL,
		authURL:      authURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// authenticate ensures a valid access token, requesting a new one from
// Twitch when the cached token is missing or about to expire.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", ErrNoCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpires) {
		return c.accessToken, nil
	}

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create auth request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch auth failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("parse auth response: %w", err)
	}

	c.accessToken = token.AccessToken
	// Renew a minute early so in-flight requests never race expiry.
	c.tokenExpires = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)

	c.logger.Debug("authenticated with igdb")
	return c.accessToken, nil
}

// query executes an Apicalypse query against an IGDB endpoint with rate
// limiting. A 429 response is retried once after a short backoff.
func (c *Client) query(ctx context.Context, endpoint, body string) ([]byte, error) {
	data, err := c.doQuery(ctx, endpoint, body)
	if err == ErrRateLimited {
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		data, err = c.doQuery(ctx, endpoint, body)
	}
	return data, err
}

func (c *Client) doQuery(ctx context.Context, endpoint, body string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "igdb"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("igdb request", "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return data, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
}
