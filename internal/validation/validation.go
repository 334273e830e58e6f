// Package validation validates request payloads with go-playground/validator
// struct tags, reporting failures as application validation errors with
// json-tag field names.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s using its `validate` tags. It returns nil or an
// *apperr.Error of kind VALIDATION listing every failed field.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("validation failed")
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make([]map[string]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		message := formatError(e)
		messages = append(messages, e.Field()+" "+message)
		fields = append(fields, map[string]string{
			"field":   e.Field(),
			"message": message,
		})
	}

	appErr := apperr.Validation(strings.Join(messages, "; "))
	return appErr.WithDetail("fields", fields)
}

func formatError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "len":
		return "must have length " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
