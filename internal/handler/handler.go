package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lotdesk/internal/model"
	"lotdesk/internal/submit"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a domain or validation error onto an HTTP status
// and response body.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var vErr *submit.ValidationError
	if errors.As(err, &vErr) {
		logger.Warn().Strs("problems", vErr.Problems).Msg("validation rejected request")
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "draft failed validation",
			Errors: vErr.Problems,
		})
		return
	}

	var dErr *model.DomainError
	if errors.As(err, &dErr) {
		status := http.StatusBadRequest
		switch dErr.Code {
		case model.ErrCodeDraftNotFound, model.ErrCodeLineNotFound:
			status = http.StatusNotFound
		case model.ErrCodeSessionHeld, model.ErrCodeDraftInFlight, model.ErrCodeDuplicateVariant:
			status = http.StatusConflict
		case model.ErrCodeDraftNotReady:
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, dErr.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, "internal error", logger)
}
