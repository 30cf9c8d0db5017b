// Package api implements the HTTP transport client for the tieba backend
// and the typed wire representations of its JSON payloads.
package api

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

	"github.com/rs/zerolog"

	"github.com/tiebago/tieba/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// CredentialSource supplies the bearer token for outgoing requests.
// ExpireToken is invoked when the backend rejects the token (401); it
// drops only the access token so the caller can still attempt a refresh.
type CredentialSource interface {
	Token() string
	ExpireToken()
}

// LoadingReporter receives loading-state transitions around each request.
type LoadingReporter interface {
	SetLoading(bool)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:8000/api".
	BaseURL string

	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration

	// Credentials supplies the bearer token. Optional.
	Credentials CredentialSource

	// Loading receives loading-state transitions. Optional.
	Loading LoadingReporter

	// HTTPClient overrides the underlying client (used in tests).
	HTTPClient *http.Client
}

// Client issues JSON requests against the backend. It attaches the bearer
// token, reports loading state, and translates failures into *Error values.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	loading LoadingReporter
	log     zerolog.Logger
}

// NewClient creates a transport client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		creds:   cfg.Credentials,
		loading: cfg.Loading,
		log:     logging.Component("api"),
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, params, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, nil, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, nil, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, params url.Values, out any) error {
	if c.loading != nil {
		c.loading.SetLoading(true)
		defer c.loading.SetLoading(false)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "invalid request payload", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Message: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := strings.TrimSpace(c.creds.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseErrorBody(resp.StatusCode, payload)
		if resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
			// The access token is no longer valid; drop it but keep the
			// refresh token so the session can still be renewed.
			c.creds.ExpireToken()
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("request rejected")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "unexpected response shape", Err: err}
	}
	return nil
}

func parseErrorBody(status int, payload []byte) *Error {
	apiErr := &Error{Status: status}
	if len(bytes.TrimSpace(payload)) == 0 {
		return apiErr
	}
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Detail = strings.TrimSpace(body.Detail)
		apiErr.Message = strings.TrimSpace(body.Message)
	}
	return apiErr
}

func pageParams(page, pageSize int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		params.Set("page_size", fmt.Sprintf("%d", pageSize))
	}
	return params
}
