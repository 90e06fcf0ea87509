package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/prompt"
)

// defaultTimeout bounds a single HTTP request to a backend.
const defaultTimeout = 60 * time.Second

// Client is the backend abstraction. Generate returns raw message texts in
// backend response order. It is not idempotent: the same prompt may yield
// different text on each call.
type Client interface {
	Generate(ctx context.Context, p prompt.Prompt, count int) ([]string, error)
	Name() string
}

// New resolves the backend from configuration. The choice is made once;
// callers hold the returned Client for the whole invocation.
func New(cfg config.Config) (Client, error) {
	switch cfg.Mode {
	case config.ModeRelay:
		return NewRelay(cfg.RelayURL), nil
	case config.ModeDirect:
		return NewAnthropic(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown backend mode: %s", cfg.Mode)
	}
}

type authError struct {
	status int
	body   string
}

func (e *authError) Error() string {
	return fmt.Sprintf("authentication rejected (status %d): %s", e.status, e.body)
}

type rateLimitError struct {
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string { return "rate limited" }

type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.status, e.body)
}

type networkError struct {
	err error
}

func (e *networkError) Error() string { return "network error: " + e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

type requestError struct {
	status int
	body   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("request rejected (status %d): %s", e.status, e.body)
}

// IsAuthError reports whether err is a 401/403 from a backend.
func IsAuthError(err error) bool {
	var e *authError
	return errors.As(err, &e)
}

// IsRateLimited reports whether err is a 429 from a backend.
func IsRateLimited(err error) bool {
	var e *rateLimitError
	return errors.As(err, &e)
}

// IsServerError reports whether err is a 5xx from a backend.
func IsServerError(err error) bool {
	var e *serverError
	return errors.As(err, &e)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var e *networkError
	return errors.As(err, &e)
}
