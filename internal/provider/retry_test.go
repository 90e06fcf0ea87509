package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zap.NewNop(), time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_RetryableExhausts(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zap.NewNop(), time.Millisecond, func() error {
		calls++
		return &serverError{status: 503}
	})
	if !IsServerError(err) {
		t.Errorf("err = %v, want the last server error", err)
	}
	if calls != maxAttempts {
		t.Errorf("calls = %d, want %d", calls, maxAttempts)
	}
}

func TestRetryWithBackoff_NonRetryableImmediate(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zap.NewNop(), time.Millisecond, func() error {
		calls++
		return &authError{status: 401}
	})
	if !IsAuthError(err) {
		t.Errorf("err = %v, want auth error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryWithBackoff(ctx, zap.NewNop(), time.Hour, func() error {
		return &serverError{status: 500}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBackoffDelay_Exponential(t *testing.T) {
	base := 100 * time.Millisecond
	e := &serverError{status: 500}
	for attempt := 1; attempt <= 3; attempt++ {
		min := base << uint(attempt-1)
		max := min + min/2
		d := backoffDelay(base, attempt, e)
		if d < min || d > max {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, d, min, max)
		}
	}
}

func TestBackoffDelay_RetryAfterWins(t *testing.T) {
	d := backoffDelay(time.Millisecond, 1, &rateLimitError{retryAfter: 7 * time.Second})
	if d != 7*time.Second {
		t.Errorf("delay = %v, want 7s from Retry-After", d)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"2", 2 * time.Second},
		{"not-a-number", 0},
		{"-1", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
