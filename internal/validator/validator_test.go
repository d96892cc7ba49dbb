package validator

import (
	"testing"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scaleRequest struct {
	TemplateID string  `validate:"required"`
	Scale      float64 `validate:"gte=0.1,lte=4"`
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(scaleRequest{TemplateID: "modern", Scale: 1}))

	err := ValidateRequest(scaleRequest{Scale: 9})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://cdn.example.com/logo.png"))
	assert.False(t, IsURL("not a url"))
	assert.False(t, IsURL(""))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("a@b.co", "email"))
	assert.True(t, ierr.IsValidation(ValidateVar("nope", "email")))
}
