package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrapsSentinel(t *testing.T) {
	err := NotFound("user", "u-1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "u-1")
}

func TestAppError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("load profile: %w", Forbidden("invalid or expired refresh token"))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NotFound("user", "u-1"), http.StatusNotFound},
		{"already exists", AlreadyExists("user", "email", "a@b.c"), http.StatusConflict},
		{"invalid input", InvalidInput("name is required"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("invalid email or password"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin access required"), http.StatusForbidden},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"bare sentinel", ErrNotFound, http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("repo: %w", ErrAlreadyExists), http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestUnauthorizedAndForbidden_AreDistinct(t *testing.T) {
	// The client treats 401 as refreshable and 403 as terminal, so the two
	// must never satisfy each other's sentinel.
	assert.False(t, errors.Is(Unauthorized("x"), ErrForbidden))
	assert.False(t, errors.Is(Forbidden("x"), ErrUnauthorized))
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Internal(cause)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "get user")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "get user")
}
