package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/storefront/internal/validation"
)

// Validator checks request bodies against their validate tags. It shares the
// tag validator used for persisted entities.
type Validator struct {
	validate *validator.Validate
}

var requestValidator = sync.OnceValue(func() *Validator {
	return &Validator{validate: validation.Struct()}
})

// GetValidator returns the process-wide request validator
func GetValidator() *Validator {
	return requestValidator()
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ErrMsgInvalidRequestFormat is reported when an error is not a tag failure
const ErrMsgInvalidRequestFormat = "Invalid request format"

// tagMessages maps a failed tag to a user-facing message. %s receives the
// tag parameter.
var tagMessages = map[string]string{
	"required":    "This field is required",
	"max":         "Must be at most %s",
	"min":         "Must be at least %s",
	"gt":          "Must be greater than %s",
	"gte":         "Must be at least %s",
	"oneof":       "Must be one of: %s",
	"excludesall": "Contains invalid characters",
}

// FormatValidationError turns tag failures into a field -> message map
// without exposing Go struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"error": ErrMsgInvalidRequestFormat}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}
