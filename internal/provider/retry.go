package provider

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// maxAttempts is the total attempt ceiling for one request, first try
// included.
const maxAttempts = 3

// retryWithBackoff runs fn up to maxAttempts times, sleeping between
// retryable failures with exponential backoff plus jitter. A 429 carrying
// a Retry-After hint overrides the computed delay. Non-retryable errors
// surface immediately. The last error wins once the ceiling is exhausted.
func retryWithBackoff(ctx context.Context, log *zap.Logger, base time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		delay := backoffDelay(base, attempt, lastErr)
		log.Debug("retrying request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func retryable(err error) bool {
	var rl *rateLimitError
	var se *serverError
	var ne *networkError
	return errors.As(err, &rl) || errors.As(err, &se) || errors.As(err, &ne)
}

func backoffDelay(base time.Duration, attempt int, err error) time.Duration {
	var rl *rateLimitError
	if errors.As(err, &rl) && rl.retryAfter > 0 {
		return rl.retryAfter
	}
	d := base << uint(attempt-1)
	return d + time.Duration(rand.Int63n(int64(d/2)+1))
}

// classifyStatus maps a non-200 HTTP response to the error taxonomy.
func classifyStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &rateLimitError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &authError{status: resp.StatusCode, body: string(body)}
	case resp.StatusCode >= 500:
		return &serverError{status: resp.StatusCode, body: string(body)}
	default:
		return &requestError{status: resp.StatusCode, body: string(body)}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
