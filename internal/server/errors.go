package server

import (
	"errors"
	"net/http"
	"time"

	cerrors "croprec/internal/errors"

	"github.com/google/uuid"
)

// Error codes as constants
const (
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound           = "NOT_FOUND"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an ErrorResponse carrying the request's ID.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	requestID := requestIDFrom(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	RespondJSON(w, statusCode, errResp)
}

// writeStructuredError maps an error from the predictor boundary onto an
// HTTP response: invalid input is a 400 with the error context as details,
// anything else is a 500 carrying the underlying message.
func writeStructuredError(w http.ResponseWriter, r *http.Request, err error) {
	var se *cerrors.StructuredError
	if errors.As(err, &se) {
		switch se.Code {
		case cerrors.ErrCodeInvalidRequest:
			WriteError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, se.Message, false, se.Context)
			return
		case cerrors.ErrCodeUnavailable:
			WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, se.Message, true, se.Context)
			return
		}
	}
	WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error(), false, nil)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found", false,
		map[string]any{"path": r.URL.Path})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", false,
		map[string]any{"method": r.Method})
}
