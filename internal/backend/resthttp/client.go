// Package resthttp implements transport.Transport against an HTTP/JSON API
// that wraps every response in the uniform result envelope.
package resthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"todosync/internal/config"
	"todosync/internal/transport"
)

const defaultUserAgent = "todosync/0.1"

// Ensure Client implements the transport contract at compile time.
var _ transport.Transport = (*Client)(nil)

// Client talks to the envelope-based REST API. Authentication is a bearer
// token persisted in the config directory; unauthenticated clients can still
// call Login and ProbeSession.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	cfg       *config.Config
}

// New builds a Client from config, loading the stored token when present.
func New(cfg *config.Config) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   base,
		userAgent: defaultUserAgent,
		cfg:       cfg,
	}

	token, err := loadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}
	c.setAuth(token, time.Duration(cfg.TimeoutSeconds)*time.Second)
	return c, nil
}

// setAuth rebuilds the HTTP client, attaching a bearer token when one is
// known.
func (c *Client) setAuth(token string, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if token == "" {
		c.http = &http.Client{Timeout: timeout}
		return
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = timeout
	c.http = httpClient
}

// ProbeSession implements transport.Transport.
func (c *Client) ProbeSession(ctx context.Context) (transport.Response[transport.User], error) {
	return do[transport.User](c, ctx, http.MethodGet, nil, "auth", "me")
}

// Login implements transport.Transport. On success the returned token is
// persisted and used for subsequent calls.
func (c *Client) Login(ctx context.Context, params transport.LoginParams) (transport.Response[transport.LoginResult], error) {
	res, err := do[transport.LoginResult](c, ctx, http.MethodPost, params, "auth", "login")
	if err != nil || !res.OK() {
		return res, err
	}
	if res.Data.Token != "" {
		if err := c.saveToken(res.Data.Token); err != nil {
			return res, err
		}
		c.setAuth(res.Data.Token, c.http.Timeout)
	}
	return res, nil
}

// Logout implements transport.Transport. The stored token is removed
// regardless of what the server answers.
func (c *Client) Logout(ctx context.Context) (transport.Response[transport.Empty], error) {
	res, err := do[transport.Empty](c, ctx, http.MethodDelete, nil, "auth", "login")
	if c.cfg != nil && c.cfg.HasToken() {
		_ = c.cfg.RemoveToken()
	}
	c.setAuth("", c.http.Timeout)
	return res, err
}

// GetLists implements transport.Transport.
func (c *Client) GetLists(ctx context.Context) (transport.Response[[]transport.List], error) {
	return do[[]transport.List](c, ctx, http.MethodGet, nil, "todo-lists")
}

// CreateList implements transport.Transport.
func (c *Client) CreateList(ctx context.Context, title string) (transport.Response[transport.List], error) {
	return do[transport.List](c, ctx, http.MethodPost, titleBody{Title: title}, "todo-lists")
}

// DeleteList implements transport.Transport.
func (c *Client) DeleteList(ctx context.Context, listID string) (transport.Response[transport.Empty], error) {
	return do[transport.Empty](c, ctx, http.MethodDelete, nil, "todo-lists", listID)
}

// RenameList implements transport.Transport.
func (c *Client) RenameList(ctx context.Context, listID, title string) (transport.Response[transport.Empty], error) {
	return do[transport.Empty](c, ctx, http.MethodPut, titleBody{Title: title}, "todo-lists", listID)
}

// GetItems implements transport.Transport.
func (c *Client) GetItems(ctx context.Context, listID string) (transport.Response[[]transport.Item], error) {
	return do[[]transport.Item](c, ctx, http.MethodGet, nil, "todo-lists", listID, "tasks")
}

// CreateItem implements transport.Transport.
func (c *Client) CreateItem(ctx context.Context, listID, title string) (transport.Response[transport.Item], error) {
	return do[transport.Item](c, ctx, http.MethodPost, titleBody{Title: title}, "todo-lists", listID, "tasks")
}

// DeleteItem implements transport.Transport.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) (transport.Response[transport.Empty], error) {
	return do[transport.Empty](c, ctx, http.MethodDelete, nil, "todo-lists", listID, "tasks", itemID)
}

// UpdateItem implements transport.Transport.
func (c *Client) UpdateItem(ctx context.Context, listID, itemID string, model transport.UpdateItemModel) (transport.Response[transport.Item], error) {
	return do[transport.Item](c, ctx, http.MethodPut, model, "todo-lists", listID, "tasks", itemID)
}

type titleBody struct {
	Title string `json:"title"`
}

// do executes one exchange and decodes the envelope. Any failure to
// complete the exchange or decode the body is returned as a plain error,
// which the engine classifies as a network failure.
func do[D any](c *Client, ctx context.Context, method string, body any, elem ...string) (transport.Response[D], error) {
	var zero transport.Response[D]

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	reqURL := c.baseURL.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return zero, fmt.Errorf("api %s returned status %d", reqURL.Path, resp.StatusCode)
	}

	var envelope transport.Response[D]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return envelope, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base_url required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// storedToken is the on-disk credential format.
type storedToken struct {
	Token string `json:"token"`
}

func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read token file: %w", config.ErrCredentials, err)
	}
	var tok storedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", fmt.Errorf("%w: invalid token file: %w", config.ErrCredentials, err)
	}
	return tok.Token, nil
}

func (c *Client) saveToken(token string) error {
	if c.cfg == nil {
		return nil
	}
	if err := c.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(storedToken{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cfg.TokenPath(), data, 0600)
}
