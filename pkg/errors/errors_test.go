package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExternalError("failed to load data", cause)

	assert.Equal(t, "EXTERNAL: failed to load data: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NOT_FOUND: session not found", NewNotFoundError("session not found").Error())
}

func TestIsType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", NewExternalError("failed to load data", nil))

	assert.True(t, IsType(err, ErrorTypeExternal))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeExternal))
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewValidationError("x", nil), http.StatusBadRequest},
		{NewExternalError("x", nil), http.StatusBadGateway},
		{NewInternalError("x", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, StatusCode(tc.err), tc.err.Error())
	}
}

func TestPublicMessage_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(NewInternalError("redis exploded", nil)))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
	assert.Equal(t, "session not found", PublicMessage(NewNotFoundError("session not found")))
}
