package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	a := assert.New(t)

	err := InvalidInput("op", nil, "URL is required")
	a.Equal("URL is required", err.Error())

	wrapped := Internal("op", fmt.Errorf("boom"), "Failed to fetch video metadata")
	a.Equal("Failed to fetch video metadata: boom", wrapped.Error())
	a.EqualError(wrapped.Unwrap(), "boom")
}

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", InvalidInput("op", nil, "bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("op", nil, "no"), http.StatusUnauthorized},
		{"not found", NotFound("op", nil, "missing"), http.StatusNotFound},
		{"rate limited", RateLimited("op", nil, "slow down"), http.StatusTooManyRequests},
		{"internal", Internal("op", nil, "oops"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("op", nil, "missing")), http.StatusNotFound},
		{"plain", fmt.Errorf("standard error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Code(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	a := assert.New(t)
	a.True(IsNotFound(NotFound("op", nil, "missing")))
	a.False(IsNotFound(InvalidInput("op", nil, "bad")))
	a.False(IsNotFound(fmt.Errorf("standard error")))
}
