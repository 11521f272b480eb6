package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/scorekeeper/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidMagnitude = "INVALID_MAGNITUDE"
	CodeInvalidScoreText = "INVALID_SCORE_TEXT"
	CodeInvalidDirection = "INVALID_DIRECTION"
	CodeInvalidPhase     = "INVALID_PHASE"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeNotInSetup       = "NOT_IN_SETUP"
	CodeNoResetPending   = "NO_RESET_PENDING"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidMagnitude):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidMagnitude, "Score must be a positive whole number"}}
	case errors.Is(err, model.ErrInvalidScoreText):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidScoreText, "Score is not a whole number"}}
	case errors.Is(err, model.ErrInvalidDirection):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidDirection, "Direction must be increase or decrease"}}
	case errors.Is(err, model.ErrInvalidPhase):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidPhase, "Phase must be setup or playing"}}
	case errors.Is(err, model.ErrNotInSetup):
		return &httpError{http.StatusConflict, APIError{CodeNotInSetup, "Players can only be added or removed during setup"}}
	case errors.Is(err, model.ErrNoResetPending):
		return &httpError{http.StatusConflict, APIError{CodeNoResetPending, "Reset must be requested before it is confirmed"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
