package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/vitaltrack/internal/apperror"
)

// validate is shared by every service; validator caches struct metadata
// and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the JSON name ("height_cm") rather than the Go field name,
	// since that is what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts the first
// failure into an apperror.ValidationFailed.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating input: %w", err)
	}
	fe := verrs[0]
	return apperror.ValidationFailed(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return field + " is invalid"
}
