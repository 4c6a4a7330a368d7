package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xannhsux/DSCI551-ChatDB4/internal/domain"
	logpkg "github.com/xannhsux/DSCI551-ChatDB4/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var errorHandlers = []errorHandler{
	invalidQueryHandler,
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// invalidQueryHandler echoes the validation detail: it describes the caller's own input.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) && !errors.Is(err, domain.ErrQueryRejected) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
