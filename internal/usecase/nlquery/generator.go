package nlquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
)

// DefaultGenerationTimeout bounds a single completion call.
const DefaultGenerationTimeout = 20 * time.Second

// Generator asks the completion service for a candidate query.
// It makes one bounded attempt; retry policy belongs to the caller.
type Generator struct {
	completer domain.Completer
	system    string
	timeout   time.Duration
}

// NewGenerator creates a Generator. A non-positive timeout uses DefaultGenerationTimeout.
func NewGenerator(c domain.Completer, reg *query.Registry, limits query.Limits, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	def := limits.Default
	if def <= 0 {
		def = query.DefaultLimit
	}
	return &Generator{
		completer: c,
		system:    BuildSystemPrompt(reg, def),
		timeout:   timeout,
	}
}

// Generate returns a candidate or an error wrapping domain.ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, question string) (query.Candidate, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrGenerationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.completer.Complete(ctx, domain.Prompt{System: g.system, User: userPrompt(question)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	c, err := ExtractCandidate(res.Text)
	if err != nil {
		return nil, fmt.Errorf("extract candidate: %w", err)
	}
	return c, nil
}
