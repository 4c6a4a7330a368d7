package domain

import "context"

// Prompt is a single chat-style completion request.
type Prompt struct {
	System string
	User   string
}

// Completer is the shared text-completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (CompletionResult, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionResult carries the completion text and token usage through the decorator chain.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
