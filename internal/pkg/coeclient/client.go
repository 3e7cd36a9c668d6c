// Package coeclient is the JSON-over-HTTP client for the COE backend.
package coeclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

// Doer is anything that can send a request, typically *http.Client or an
// AuthDoer wrapping one.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthDoer attaches the bearer token to every request.
type AuthDoer struct {
	Doer  Doer
	Token string
}

func (a *AuthDoer) Do(req *http.Request) (*http.Response, error) {
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
	return a.Doer.Do(req)
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	doer    Doer

	timeout       time.Duration
	maxRetries    uint64
	retryInterval time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times an idempotent read is retried.
func WithRetries(maxRetries uint64, interval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryInterval = interval
	}
}

func New(baseURL string, doer Doer, opts ...Option) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		doer:          doer,
		timeout:       30 * time.Second,
		maxRetries:    2,
		retryInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get decodes the JSON answer of an idempotent GET into out, retrying
// transport errors, 429 and 5xx.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return backoff.Retry(
		func() error {
			err := c.do(ctx, http.MethodGet, path, nil, out)
			if err == nil {
				return nil
			}

			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status != http.StatusTooManyRequests && apiErr.Status < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}

			logger.Debugf(ctx, "retrying GET %s: %s", path, err.Error())
			return err
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.maxRetries),
			ctx,
		),
	)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("sonic.Marshal: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var envelope domain.ErrorResponse
		if len(raw) > 0 && sonic.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err = sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode payload: %w", method, path, err)
	}

	return nil
}
