// Package jobber is a minimal client for the Jobber OAuth and GraphQL APIs.
package jobber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an upstream error response is retained
// for diagnostics.
const maxErrorBody = 4 << 10

// Config holds the registered OAuth application and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	AuthURL        string
	TokenURL       string
	GraphQLURL     string
	GraphQLVersion string

	Timeout time.Duration
}

// Client talks to Jobber. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client. A zero timeout defaults to 15s.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// AuthorizeURL builds the authorization endpoint URL for the given state
// token. An empty state omits the parameter entirely.
func (c *Client) AuthorizeURL(state string) string {
	u, _ := url.Parse(c.cfg.AuthURL)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("scope", strings.Join(c.cfg.Scopes, " "))
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenResponse is the provider's answer to a successful code exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ExchangeError is a non-2xx answer from the token endpoint. The body is
// kept (bounded) so the caller can surface upstream diagnostics.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token endpoint http %d: %s", e.StatusCode, e.Body)
}

// ExchangeCode trades an authorization code for tokens. One attempt, no
// retry: codes are single-use at Jobber, so a replay fails here by design.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.ExpiresIn == 0 {
		tr.ExpiresIn = 3600
	}
	return &tr, nil
}

// GraphQL posts a raw GraphQL query with the given access token and returns
// the upstream status and body verbatim. Used by the debug endpoint only.
func (c *Client) GraphQL(ctx context.Context, accessToken, query string) (int, json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if c.cfg.GraphQLVersion != "" {
		req.Header.Set("X-JOBBER-GRAPHQL-VERSION", c.cfg.GraphQLVersion)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, json.RawMessage(body), nil
}
