package validation

import (
	"errors"
	"strings"

	"learnhub/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v by its `validate` tags and reports failures as a
// ValidationError keyed by lower-cased field name.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation("invalid input", nil)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperr.Validation("invalid input", fields)
}

// ID rejects empty or whitespace-only identifiers.
func ID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(name+" is required", map[string]string{name: "required"})
	}
	return nil
}
