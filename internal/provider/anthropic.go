package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dshills/gyst/internal/logx"
	"github.com/dshills/gyst/internal/prompt"
	"go.uber.org/zap"
)

const (
	anthropicAPIURL     = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
)

// Anthropic is the direct backend: authenticated calls to the Anthropic
// messages API with the user's own key and model.
type Anthropic struct {
	apiKey    string
	model     string
	client    *http.Client
	retryBase time.Duration
	log       *zap.Logger
}

// NewAnthropic creates a direct-backed client. The key is validated for
// presence by config before this point; the API itself rejects bad keys
// with 401, which surfaces as an auth error with zero retries.
func NewAnthropic(apiKey, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is empty")
	}
	return &Anthropic{
		apiKey:    apiKey,
		model:     model,
		client:    &http.Client{Timeout: defaultTimeout},
		retryBase: 500 * time.Millisecond,
		log:       logx.Debug(),
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate issues one API call per requested message. Suggestions run at a
// higher temperature so alternatives actually differ.
func (a *Anthropic) Generate(ctx context.Context, p prompt.Prompt, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	maxTokens, temperature := taskParams(p.Task.Kind)

	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      p.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: p.User},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	results := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, err := a.send(ctx, payload)
		if err != nil {
			return nil, err
		}
		results = append(results, text)
	}
	return results, nil
}

func taskParams(kind prompt.Kind) (maxTokens int, temperature float64) {
	switch kind {
	case prompt.KindSuggestions:
		return 200, 0.7
	case prompt.KindExplain:
		return 500, 0.2
	default:
		return 200, 0.0
	}
}

func (a *Anthropic) send(ctx context.Context, payload []byte) (string, error) {
	var text string
	err := retryWithBackoff(ctx, a.log, a.retryBase, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", a.apiKey)
		httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

		httpResp, err := a.client.Do(httpReq)
		if err != nil {
			return &networkError{err: err}
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if httpResp.StatusCode != http.StatusOK {
			return classifyStatus(httpResp, respBody)
		}

		var result anthropicResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}

		text = ""
		for _, block := range result.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		return nil
	})
	return text, err
}
