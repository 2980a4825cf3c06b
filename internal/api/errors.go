package api

import (
	"errors"
	"net/http"
	"strings"

	"kolbook/internal/database"
)

// Read failures are classified so the UI can tell a transient storage hiccup
// from a real denial. Retryable conditions get a banner with a retry button;
// the rest get a plain error state.
const (
	codeIndexBuilding    = "index_building"
	codeIndexRequired    = "index_required"
	codePermissionDenied = "permission_denied"
	codeNotFound         = "not_found"
	codeGeneric          = "internal"
)

type classifiedError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func classifyReadError(err error) (int, classifiedError) {
	if errors.Is(err, database.ErrNotFound) {
		return http.StatusNotFound, classifiedError{
			Code:      codeNotFound,
			Message:   "record not found",
			Retryable: false,
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "index is currently building"):
		return http.StatusServiceUnavailable, classifiedError{
			Code:      codeIndexBuilding,
			Message:   "the index is still building, data will appear shortly",
			Retryable: true,
		}
	case strings.Contains(msg, "requires an index"), strings.Contains(msg, "no such index"):
		return http.StatusFailedDependency, classifiedError{
			Code:      codeIndexRequired,
			Message:   "the query needs an index that does not exist",
			Retryable: false,
		}
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "access denied"):
		return http.StatusForbidden, classifiedError{
			Code:      codePermissionDenied,
			Message:   "you do not have access to this data",
			Retryable: false,
		}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "busy"):
		return http.StatusServiceUnavailable, classifiedError{
			Code:      codeGeneric,
			Message:   "storage is briefly unavailable, try again",
			Retryable: true,
		}
	default:
		return http.StatusInternalServerError, classifiedError{
			Code:      codeGeneric,
			Message:   "failed to load data",
			Retryable: false,
		}
	}
}

func writeReadError(w http.ResponseWriter, err error) {
	status, ce := classifyReadError(err)
	writeJSON(w, status, map[string]any{"error": ce})
}
