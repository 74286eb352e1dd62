package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", NewValidationError("email", "already registered"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("register: %w", NewValidationError("username", "taken")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"banned", ErrAccountBanned, http.StatusForbidden, "ACCOUNT_BANNED"},
		{"authorization", Forbidden("admins cannot be banned"), http.StatusForbidden, "ACCESS_DENIED"},
		{"not found", NotFound("game", 7), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", &ConflictError{Message: "reaction changed concurrently"}, http.StatusConflict, "CONFLICT"},
		{"uploads disabled", ErrUploadsDisabled, http.StatusServiceUnavailable, "UPLOADS_DISABLED"},
		{"store failure", errors.New("dial tcp 10.0.0.3:3306: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternals(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("Error 1062: Duplicate entry 'x' for key 'users.email'"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
	assert.Nil(t, httpErr.ToErrorResponse().Fields)
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("username", "too short").Add("email", "invalid").Add("username", "ignored")
	assert.Error(t, verr.OrNil())
	assert.Equal(t, "too short", verr.Fields["username"])
	assert.Equal(t, "validation failed: email: invalid; username: too short", verr.Error())

	httpErr := MapErrorToHTTP(verr)
	assert.Equal(t, verr.Fields, httpErr.ToErrorResponse().Fields)
}
