package nlquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain/query"
	"github.com/xannhsux/DSCI551-ChatDB4/internal/metrics"
)

// Source names the path that produced the executed query.
type Source string

// Source constants.
const (
	SourceGenerator Source = "generator"
	SourceFallback  Source = "fallback"
	// SourceDirect marks queries built by callers without translation.
	SourceDirect Source = "direct"
)

// FallbackReason explains why the keyword parser was used.
type FallbackReason string

// Fallback reasons.
const (
	ReasonEmptyQuestion      FallbackReason = "empty_question"
	ReasonCompletionDisabled FallbackReason = "completion_disabled"
	ReasonGenerationFailed   FallbackReason = "generation_failed"
	ReasonValidationRejected FallbackReason = "validation_rejected"
)

// Meta is pipeline diagnostics returned alongside records.
type Meta struct {
	Query          query.StructuredQuery
	MatchMode      query.MatchMode
	UsedFallback   bool
	Source         Source
	FallbackReason FallbackReason
	Repairs        []string
}

// Result is a record list plus pipeline diagnostics.
type Result struct {
	Records []domain.Record
	Meta    Meta
}

// Service translates questions into structured queries and executes them.
type Service struct {
	reg       *query.Registry
	generator CandidateGenerator
	validator *Validator
	fallback  *Fallback
	executor  *Executor
	logger    *zap.Logger
}

// New creates a Service. gen may be nil, in which case every question goes to the fallback.
func New(
	reg *query.Registry, store Store, gen CandidateGenerator,
	limits query.Limits, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reg:       reg,
		generator: gen,
		validator: NewValidator(reg, limits),
		fallback:  NewFallback(reg, limits),
		executor:  NewExecutor(store),
		logger:    logger,
	}
}

// Translate produces a structured query for question. It never fails: generation
// and validation problems are absorbed by the keyword fallback.
func (s *Service) Translate(ctx context.Context, question string) Meta {
	if strings.TrimSpace(question) == "" {
		return s.useFallback(question, ReasonEmptyQuestion, nil)
	}
	if s.generator == nil {
		return s.useFallback(question, ReasonCompletionDisabled, nil)
	}

	cand, err := s.generator.Generate(ctx, question)
	if err != nil {
		return s.useFallback(question, ReasonGenerationFailed, err)
	}

	v, err := s.validator.Validate(cand)
	if err != nil {
		return s.useFallback(question, ReasonValidationRejected, err)
	}

	if len(v.Repairs) > 0 {
		s.logger.Debug("Candidate repaired",
			zap.String("query", v.Query.String()),
			zap.Strings("repairs", v.Repairs),
		)
	}
	metrics.PipelineTranslationsTotal.WithLabelValues(string(SourceGenerator), "").Inc()
	return Meta{Query: v.Query, Source: SourceGenerator, Repairs: v.Repairs}
}

// TranslateAndExecute translates question and runs the resulting query.
// Only store failures are returned as errors (wrapping domain.ErrStoreUnavailable).
func (s *Service) TranslateAndExecute(ctx context.Context, question string) (Result, error) {
	meta := s.Translate(ctx, question)
	return s.run(ctx, meta)
}

// Execute runs a query built by the caller.
func (s *Service) Execute(ctx context.Context, q query.StructuredQuery) (Result, error) {
	return s.run(ctx, Meta{Query: q, Source: SourceDirect})
}

func (s *Service) run(ctx context.Context, meta Meta) (Result, error) {
	q := meta.Query
	out, err := s.executor.Execute(ctx, q)
	if err != nil {
		metrics.PipelineExecutionsTotal.WithLabelValues(string(q.Operation()), "", "error").Inc()
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.logger.Error("Store unavailable", zap.String("query", q.String()), zap.Error(err))
		}
		return Result{}, fmt.Errorf("execute %s: %w", q.Operation(), err)
	}
	metrics.PipelineExecutionsTotal.WithLabelValues(string(q.Operation()), string(out.MatchMode), "ok").Inc()

	meta.MatchMode = out.MatchMode
	return Result{Records: out.Records, Meta: meta}, nil
}

func (s *Service) useFallback(question string, reason FallbackReason, cause error) Meta {
	q := s.fallback.Parse(question)
	metrics.PipelineTranslationsTotal.WithLabelValues(string(SourceFallback), string(reason)).Inc()

	fields := []zap.Field{
		zap.String("reason", string(reason)),
		zap.String("query", q.String()),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if reason == ReasonEmptyQuestion || reason == ReasonCompletionDisabled {
		s.logger.Debug("Keyword fallback", fields...)
	} else {
		s.logger.Warn("Keyword fallback", fields...)
	}

	return Meta{
		Query:          q,
		UsedFallback:   true,
		Source:         SourceFallback,
		FallbackReason: reason,
	}
}
