package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewError("missing").Mark(ErrNotFound), http.StatusNotFound},
		{"already exists", NewError("dup").Mark(ErrAlreadyExists), http.StatusConflict},
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"invalid operation", NewError("no").Mark(ErrInvalidOperation), http.StatusBadRequest},
		{"unauthenticated", NewError("who").Mark(ErrUnauthenticated), http.StatusUnauthorized},
		{"permission denied", NewError("nope").Mark(ErrPermissionDenied), http.StatusForbidden},
		{"render failure", NewError("layout").Mark(ErrRenderFailure), http.StatusInternalServerError},
		{"rate limited", NewError("slow down").Mark(ErrRateLimited), http.StatusTooManyRequests},
		{"unmarked", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestMarksSurviveWrapping(t *testing.T) {
	err := WithError(sql.ErrNoRows).
		WithHint("Invoice not found").
		Mark(ErrNotFound)
	wrapped := fmt.Errorf("loading invoice: %w", err)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.True(t, errors.Is(wrapped, sql.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromErr(wrapped))
}

func TestBuilderHints(t *testing.T) {
	err := NewErrorf("logo is %d bytes", 10).
		WithHintf("Images must be at most %d MB", 5).
		Mark(ErrValidation)

	assert.Contains(t, err.Error(), "logo is 10 bytes")
	assert.Equal(t, "Images must be at most 5 MB", errors.FlattenHints(err))
}

func TestBuilderWithMessage(t *testing.T) {
	err := WithError(fmt.Errorf("dial tcp: refused")).
		WithMessage("fetching logo").
		Mark(ErrHTTPClient)

	assert.True(t, IsHTTPClient(err))
	assert.Contains(t, err.Error(), "fetching logo")
	assert.Contains(t, err.Error(), "dial tcp: refused")
}

func TestInternalErrorIs(t *testing.T) {
	custom := New(ErrCodeRenderFailure, "engine crashed")
	assert.True(t, errors.Is(custom, ErrRenderFailure))
	assert.False(t, errors.Is(custom, ErrNotFound))
	assert.Equal(t, "render_failure: engine crashed", custom.Error())
}

func TestCodeFromErr(t *testing.T) {
	assert.Equal(t, ErrCodeRateLimited, CodeFromErr(NewError("slow").Mark(ErrRateLimited)))
	assert.Equal(t, ErrCodeValidation, CodeFromErr(fmt.Errorf("wrapped: %w", NewError("bad").Mark(ErrValidation))))
	assert.Equal(t, ErrCodeSystemError, CodeFromErr(fmt.Errorf("plain")))
}
