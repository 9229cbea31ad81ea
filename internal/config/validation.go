package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report YAML key names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "url":
		return "must be a valid URL (e.g. https://10.0.0.5)"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError is one invalid settings key
type ValidationError struct {
	Key     string
	Message string
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("config.yaml has %d problem(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Key, err.Message))
	}
	return sb.String()
}

// Validate checks the general settings and the keys fn requires
func (s *Settings) Validate(fn Function) error {
	var errs ValidationErrors

	for _, f := range RequiredFields(fn) {
		if err := ValidateField(f, f.Value(s)); err != nil {
			errs = append(errs, ValidationError{Key: f.Key, Message: err.Error()})
		}
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			if hasKey(errs, e.Field()) {
				continue
			}
			errs = append(errs, ValidationError{Key: e.Field(), Message: getValidationMessage(e)})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateField checks a single value against the field's rule
func ValidateField(f Field, value string) error {
	err := validate.Var(value, f.Rule)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(getValidationMessage(verrs[0]))
	}
	return err
}

func hasKey(errs ValidationErrors, key string) bool {
	for _, e := range errs {
		if e.Key == key {
			return true
		}
	}
	return false
}
