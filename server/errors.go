package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/engine"
)

// ErrorCode is the machine-readable error class in an error response.
type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrorCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrorCodeDatasetUnavailable ErrorCode = "DATASET_UNAVAILABLE"
	ErrorCodeEmptyDataset       ErrorCode = "EMPTY_DATASET"
	ErrorCodeSchemaMismatch     ErrorCode = "SCHEMA_MISMATCH"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Status    string    `json:"status"`
	ErrorCode ErrorCode `json:"error_code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// Classify maps a report error onto an HTTP status and error code.
func Classify(err error) (int, ErrorCode) {
	switch {
	case errors.Is(err, engine.ErrLoad):
		return http.StatusServiceUnavailable, ErrorCodeDatasetUnavailable
	case errors.Is(err, engine.ErrSchema):
		return http.StatusUnprocessableEntity, ErrorCodeSchemaMismatch
	case errors.Is(err, engine.ErrEmptyDataset):
		return http.StatusUnprocessableEntity, ErrorCodeEmptyDataset
	default:
		return http.StatusInternalServerError, ErrorCodeInternal
	}
}

// errorHandler writes error responses and logs them.
type errorHandler struct {
	logger *zap.Logger
}

func (h *errorHandler) handle(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	h.write(w, r, status, code, err.Error())
}

func (h *errorHandler) write(w http.ResponseWriter, r *http.Request, status int, code ErrorCode, message string) {
	requestID := r.Header.Get(requestIDHeader)
	h.logger.Warn("HTTP error response",
		zap.Int("status_code", status),
		zap.String("error_code", string(code)),
		zap.String("message", message),
		zap.String("request_id", requestID),
	)
	writeError(w, status, code, message, requestID)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Status:    "error",
		ErrorCode: code,
		Message:   message,
		RequestID: requestID,
	})
}
