package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode before writing headers so an encoding failure can still be a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrMsgGenericServerError})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and maps it to a status and user message
func respondServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(logMsg, "error", err, "path", r.URL.Path)
	} else {
		log.Warn(logMsg, "error", err, "status", status, "path", r.URL.Path)
	}
	respondError(w, status, message)
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Caller-side contract violations are 400, missing resources 404, anything
// else 500 with a generic message.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest, ErrMsgInvalidLevelError
	case errors.Is(err, domain.ErrInvalidDelta):
		return http.StatusBadRequest, ErrMsgInvalidDeltaError
	case errors.Is(err, domain.ErrInvalidFactor):
		return http.StatusBadRequest, ErrMsgInvalidFactorError
	case errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusBadRequest, ErrMsgDivisionByZeroError
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidModifier):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrMalformedSnapshot):
		return http.StatusBadRequest, ErrMsgMalformedSnapshotErr
	case errors.Is(err, domain.ErrUnsupportedSnapshot):
		return http.StatusUnprocessableEntity, ErrMsgUnsupportedSnapshotEr
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, ErrMsgProfileNotFoundError
	case errors.Is(err, domain.ErrUnknownBoost):
		return http.StatusNotFound, ErrMsgUnknownBoostError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
