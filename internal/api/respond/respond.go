package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afterglow3292/portops/internal/model"
)

// ErrorResponse is the wire shape for every non-2xx body.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError classifies a service error and writes the matching status code.
// Unclassified errors are reported as INTERNAL with an opaque message; the
// real cause is only logged.
func WriteError(w http.ResponseWriter, err error) {
	kind, code := classify(err)
	msg := err.Error()
	if kind == "INTERNAL" {
		log.Error().Err(err).Msg("internal error on request")
		msg = "internal error"
	}
	WriteJSON(w, code, ErrorResponse{
		Kind:    kind,
		Error:   http.StatusText(code),
		Code:    code,
		Message: msg,
	})
}

// WriteBadRequest writes a 400 VALIDATION response for malformed input.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Kind:    "VALIDATION",
		Error:   http.StatusText(http.StatusBadRequest),
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func classify(err error) (string, int) {
	switch {
	case model.IsValidationError(err):
		return "VALIDATION", http.StatusBadRequest
	case model.IsNotFoundError(err):
		return "NOT_FOUND", http.StatusNotFound
	case model.IsConflictError(err):
		return "CONFLICT", http.StatusConflict
	case model.IsIllegalTransitionError(err):
		return "ILLEGAL_TRANSITION", http.StatusConflict
	case model.IsReferentialIntegrityError(err):
		return "REFERENTIAL_INTEGRITY", http.StatusConflict
	case model.IsBusyError(err):
		return "BUSY", http.StatusServiceUnavailable
	default:
		return "INTERNAL", http.StatusInternalServerError
	}
}
