// Package respond centralizes JSON responses and the error-code to HTTP
// status translation used by every handler.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/errs"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes err as a coded JSON error response. Unexpected faults are
// logged and surfaced as a generic internal error without their detail.
func Error(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	// The default message for the code, never the wrapped cause: internal
	// detail stays in the logs.
	coded := errs.E(code)

	if coded.Kind() == errs.KindInternal {
		slog.Error("internal error", "error", err)
	}

	JSON(w, statusFor(coded.Kind()), &api.Error{
		ErrorCode:    string(code),
		ErrorMessage: coded.Message,
	})
}

// ValidationError writes a 400 with the invalid-request code and a specific
// message about what was malformed.
func ValidationError(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, &api.Error{
		ErrorCode:    string(errs.InvalidRequest),
		ErrorMessage: message,
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindStateViolation:
		return http.StatusUnprocessableEntity
	case errs.KindContention:
		return http.StatusTooManyRequests
	case errs.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
