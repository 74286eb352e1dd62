package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountBanned is returned when a banned account tries to log in.
	ErrAccountBanned = errors.New("account is banned")
	// ErrUploadsDisabled is returned when no object store is configured.
	ErrUploadsDisabled = errors.New("profile image uploads are disabled")
)

// ValidationError reports malformed or duplicate input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records another field failure and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
	return e
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthorizationError is returned when the requester lacks the role for an
// action or acts from a banned account.
type AuthorizationError struct {
	Reason string
}

// Forbidden creates an AuthorizationError.
func Forbidden(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *AuthorizationError) Error() string {
	return "access denied: " + e.Reason
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

// NotFound creates a NotFoundError.
func NotFound(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError is returned when a concurrent write violated a uniqueness rule
// and could not be coalesced.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// becomes a generic 500 so store internals never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	var (
		validationErr    *ValidationError
		authorizationErr *AuthorizationError
		notFoundErr      *NotFoundError
		conflictErr      *ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = validationErr.Fields
		return httpErr
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountBanned):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_BANNED")
	case errors.As(err, &authorizationErr):
		return NewHTTPError(http.StatusForbidden, authorizationErr.Error(), "ACCESS_DENIED")
	case errors.As(err, &notFoundErr):
		return NewHTTPError(http.StatusNotFound, notFoundErr.Error(), "NOT_FOUND")
	case errors.As(err, &conflictErr):
		return NewHTTPError(http.StatusConflict, conflictErr.Error(), "CONFLICT")
	case errors.Is(err, ErrUploadsDisabled):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "UPLOADS_DISABLED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
