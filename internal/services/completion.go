package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/logger"
)

const defaultCompletionURL = "https://api.openai.com/v1/chat/completions"

// CompletionService forwards prompts to the chat-completion API. It is a pure
// pass-through: one upstream call per request, no retry, failures surfaced to
// the caller.
type CompletionService struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

// NewCompletionService creates a CompletionService with the given API key.
// An empty key is allowed; calls then fail with a configuration error.
func NewCompletionService(apiKey string) *CompletionService {
	return &CompletionService{
		BaseURL:   defaultCompletionURL,
		APIKey:    apiKey,
		Model:     "gpt-3.5-turbo",
		MaxTokens: 800,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether an upstream key is present.
func (s *CompletionService) Configured() bool {
	return s.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage json.RawMessage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CompletionResult is the response shape returned to the caller.
type CompletionResult struct {
	Result    string          `json:"result"`
	LatencyMs int64           `json:"latencyMs"`
	Feature   string          `json:"feature,omitempty"`
	Usage     json.RawMessage `json:"usage,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Complete forwards a single prompt upstream and returns the aggregated
// completion text plus latency and usage metadata.
func (s *CompletionService) Complete(ctx context.Context, prompt, feature string) (*CompletionResult, error) {
	if !s.Configured() {
		return nil, apperrors.NotConfigured("Server missing OPENAI_API_KEY")
	}
	if feature == "" {
		feature = "generic"
	}
	logger.Info("completion prompt", "feature", feature, "chars", len(prompt))

	payload, err := json.Marshal(chatRequest{
		Model:     s.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: s.MaxTokens,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	started := time.Now()
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		logger.Error("completion call failed", "error", err)
		return nil, apperrors.Upstream(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Errorf("failed to read response: %w", err))
	}
	ms := time.Since(started).Milliseconds()

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apperrors.Upstream(fmt.Errorf("failed to decode response: %w", err))
	}

	var parts []string
	for _, c := range data.Choices {
		if c.Message.Content != "" {
			parts = append(parts, c.Message.Content)
		}
	}
	result := &CompletionResult{
		Result:    strings.Join(parts, "\n\n"),
		LatencyMs: ms,
		Feature:   feature,
		Usage:     data.Usage,
	}
	if data.Error != nil {
		result.Error = data.Error.Message
	}
	logger.Info("completion response", "feature", feature, "ms", ms, "hasResult", result.Result != "")
	return result, nil
}
