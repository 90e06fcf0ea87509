package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dshills/gyst/internal/gitrepo"
	"github.com/dshills/gyst/internal/logx"
	"github.com/dshills/gyst/internal/prompt"
	"go.uber.org/zap"
)

// Relay talks to the hosted relay over unauthenticated JSON HTTPS. The
// relay holds its own upstream credentials; no key ever leaves the client.
type Relay struct {
	baseURL   string
	client    *http.Client
	retryBase time.Duration
	log       *zap.Logger
}

// NewRelay creates a relay-backed client.
func NewRelay(baseURL string) *Relay {
	return &Relay{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: defaultTimeout},
		retryBase: 500 * time.Millisecond,
		log:       logx.Debug(),
	}
}

func (r *Relay) Name() string { return "relay" }

type relayCommitRequest struct {
	Changes gitrepo.ChangeSet `json:"changes"`
	Diff    string            `json:"diff"`
	Count   int               `json:"count,omitempty"`
}

type relayCommitResponse struct {
	Message string `json:"message"`
}

type relaySuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type relayCommandRequest struct {
	Description string `json:"description"`
}

type relayCommandResponse struct {
	Suggestion string `json:"suggestion"`
}

type relayHealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Generate dispatches the task to the matching relay endpoint and returns
// the raw texts in response order.
func (r *Relay) Generate(ctx context.Context, p prompt.Prompt, count int) ([]string, error) {
	switch p.Task.Kind {
	case prompt.KindSuggestions:
		req := relayCommitRequest{Changes: p.Changes, Diff: p.Diff.Text, Count: count}
		var resp relaySuggestionsResponse
		if err := r.post(ctx, "/api/commit/suggestions", req, &resp); err != nil {
			return nil, err
		}
		return resp.Suggestions, nil
	case prompt.KindExplain:
		req := relayCommandRequest{Description: p.Task.Description}
		var resp relayCommandResponse
		if err := r.post(ctx, "/api/command", req, &resp); err != nil {
			return nil, err
		}
		return []string{resp.Suggestion}, nil
	default:
		req := relayCommitRequest{Changes: p.Changes, Diff: p.Diff.Text}
		var resp relayCommitResponse
		if err := r.post(ctx, "/api/commit", req, &resp); err != nil {
			return nil, err
		}
		return []string{resp.Message}, nil
	}
}

// Health checks the relay's health endpoint.
func (r *Relay) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return &networkError{err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return classifyStatus(httpResp, body)
	}
	var health relayHealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("parsing health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("relay reports status %q", health.Status)
	}
	return nil
}

func (r *Relay) post(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	return retryWithBackoff(ctx, r.log, r.retryBase, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := r.client.Do(httpReq)
		if err != nil {
			return &networkError{err: err}
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if httpResp.StatusCode != http.StatusOK {
			return classifyStatus(httpResp, body)
		}
		if err := json.Unmarshal(body, respBody); err != nil {
			return fmt.Errorf("parsing relay response: %w", err)
		}
		return nil
	})
}
