package chatdb

import "context"

// Completer answers a chat prompt. Supply one with WithCompleter to use a
// provider other than an OpenAI-compatible endpoint.
type Completer interface {
	Complete(ctx context.Context, system, user string) (CompletionResult, error)
}

// CompletionResult carries the generated text and token counts.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
