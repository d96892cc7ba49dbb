package validator

import (
	"sync"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator returns the process wide validator, creating it on first use
func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

// ValidateRequest validates struct tags on req and maps failures to a
// validation error with per field details
func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateVar checks a single value against a tag such as "url"
func ValidateVar(value any, tag string) error {
	if err := GetValidator().Var(value, tag); err != nil {
		return ierr.WithError(err).
			WithHintf("Value does not satisfy %s", tag).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsURL reports whether s is a syntactically valid absolute URL
func IsURL(s string) bool {
	return GetValidator().Var(s, "required,url") == nil
}
