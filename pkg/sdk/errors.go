package chatdb

import "github.com/xannhsux/DSCI551-ChatDB4/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound                = domain.ErrNotFound
	ErrInvalidQuery            = domain.ErrInvalidQuery
	ErrStoreUnavailable        = domain.ErrStoreUnavailable
	ErrCompletionQuotaExceeded = domain.ErrCompletionQuotaExceeded
	ErrCompletionProviderError = domain.ErrCompletionProviderError
)
