package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals malformed query parameters from a caller.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals a backing store connection or query failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrGenerationFailed signals that the language model produced no usable candidate.
	ErrGenerationFailed = errors.New("query generation failed")
	// ErrQueryRejected signals a candidate query that could not be repaired.
	ErrQueryRejected = errors.New("query rejected")

	// ErrCompletionDisabled signals that no completion service is configured.
	ErrCompletionDisabled = errors.New("completion disabled")
	// ErrCompletionQuotaExceeded signals an exhausted completion token budget.
	ErrCompletionQuotaExceeded = errors.New("completion quota exceeded")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)

// RejectionError wraps ErrQueryRejected with the validation step that failed.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrQueryRejected.Error(), e.Reason)
}

func (e *RejectionError) Unwrap() error { return ErrQueryRejected }

// NewRejection creates a rejection error.
func NewRejection(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}
