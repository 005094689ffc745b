package mediapost_errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("Name and description are required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("Post not found"), http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("Invalid token"), http.StatusUnauthorized},
		{"too large", NewTooLargeError("File too large"), http.StatusRequestEntityTooLarge},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"opaque", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("delete: %w", NewNotFoundError("Post not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsOperational(err))
	assert.Equal(t, "delete: Post not found", err.Error())
}

func TestIsOperational(t *testing.T) {
	assert.False(t, IsOperational(errors.New("boom")))
	assert.False(t, IsOperational(ErrNotFound))
	assert.True(t, IsOperational(NewValidationError("bad")))
}
