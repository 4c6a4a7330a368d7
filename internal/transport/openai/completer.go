package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
)

// Completer is a chat completion provider using the OpenAI-compatible API (Ollama, vLLM, OpenAI).
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	provider    string
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Provider    string
	Logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Ollama ignores the key but the client always sends the header.
		apiKey = "ollama"
	}
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.Completer with transport-level metrics.
func (c *Completer) Complete(ctx context.Context, prompt domain.Prompt) (domain.CompletionResult, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.fail(errorType(err))
		return domain.CompletionResult{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.fail("empty_response")
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	u := resp.Usage
	if u.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(u.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(u.CompletionTokens))
	}

	return domain.CompletionResult{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Completer) fail(kind string) {
	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
	metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, kind).Inc()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "api_error"
	}
}

// parseAPIError extracts a human-readable error from the API response.
// Provider failures wrap domain.ErrCompletionProviderError; context errors stay visible to errors.Is.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = strings.TrimSpace(string(reqErr.Body))
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", wrap, err)
}

// extractDetail reads {"detail": "..."} or Ollama's native {"error": "..."} body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string          `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	var msg string
	if json.Unmarshal(parsed.Error, &msg) == nil {
		return msg
	}
	return ""
}
