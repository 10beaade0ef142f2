// Package api implements the JSON/HTTPS client for the Memoir backend:
// auth, storage-token issuance, media metadata registration, and paginated
// listing. Every response uses the uniform envelope
// {success, code, message, data}; non-success envelopes surface as
// BusinessError, everything below that as TransportError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memoirapp/mediakit/internal/common"
	"github.com/memoirapp/mediakit/internal/logging"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	baseURL string
	prefix  string
	http    *http.Client
	log     logging.Logger

	dateHook func(time.Time)

	mu    sync.RWMutex
	token string
}

// New constructs a backend client. baseURL is e.g. "https://api.memoir.app",
// prefix the API path prefix ("/api"). timeout bounds every request.
func New(baseURL, prefix string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// OnServerDate registers a hook fed the backend's Date response header after
// every request. Consumers use it as a trusted time baseline, e.g. to guard
// storage-key partitions against a future-dated local clock. Set during
// wiring, before the client is shared across goroutines.
func (c *Client) OnServerDate(fn func(time.Time)) {
	c.dateHook = fn
}

// SetToken installs the bearer token used on authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ensureToken fails fast with a typed error instead of letting a doomed
// request hit the backend. The token is decoded without verification; only
// the exp claim is consulted.
func (c *Client) ensureToken() error {
	token := c.Token()
	if token == "" {
		return common.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return common.ErrInvalidToken
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(time.Now()) {
		return common.ErrTokenExpired
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + c.prefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one JSON request and decodes the envelope. in may be nil for
// body-less requests; out may be nil when the caller ignores data.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: "encode request", Err: err}
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if c.dateHook != nil {
		if serverTime, err := http.ParseTime(resp.Header.Get("Date")); err == nil {
			c.dateHook(serverTime)
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)}
	}

	if !env.Success {
		return &BusinessError{Code: env.Code, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
