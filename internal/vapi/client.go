package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"
)

var (
	// ErrMissingAPIKey is returned before any network activity when no
	// API key is configured.
	ErrMissingAPIKey = errors.New("vapi api key not configured")

	// ErrUnavailable wraps circuit breaker rejections.
	ErrUnavailable = errors.New("vapi unavailable")
)

// StatusError is a non-2xx response from the VAPI API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vapi api error (%d): %s", e.StatusCode, e.Body)
}

// Client calls the VAPI assistant endpoints. Requests do not retry.
type Client struct {
	cfg     *Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// New creates a VAPI client. Server errors and transport failures count
// toward tripping the breaker; 4xx responses do not.
func New(cfg *Config, logger *slog.Logger) *Client {
	logger = logger.With("client", "vapi")

	threshold := cfg.Breaker.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "vapi",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.IntervalDuration(),
		Timeout:     cfg.Breaker.TimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Create issues POST /assistant and returns the created assistant.
func (c *Client) Create(ctx context.Context, a *Assistant) (*Assistant, error) {
	body, err := c.do(ctx, http.MethodPost, "/assistant", a)
	if err != nil {
		return nil, err
	}
	return DecodeAssistant(body)
}

// Update issues PATCH /assistant/{id}.
func (c *Client) Update(ctx context.Context, id string, a *Assistant) (*Assistant, error) {
	body, err := c.do(ctx, http.MethodPatch, "/assistant/"+url.PathEscape(id), a)
	if err != nil {
		return nil, err
	}
	return DecodeAssistant(body)
}

// Get issues GET /assistant/{id}.
func (c *Client) Get(ctx context.Context, id string) (*Assistant, error) {
	body, err := c.do(ctx, http.MethodGet, "/assistant/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return DecodeAssistant(body)
}

// Delete issues DELETE /assistant/{id}.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/assistant/"+url.PathEscape(id), nil)
	return err
}

// List issues GET /assistant.
func (c *Client) List(ctx context.Context) ([]Assistant, error) {
	body, err := c.do(ctx, http.MethodGet, "/assistant", nil)
	if err != nil {
		return nil, err
	}
	return DecodeAssistants(body)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, err
	}

	return result.([]byte), nil
}
