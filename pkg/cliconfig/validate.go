package cliconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var configValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML key so messages match the config file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that all values are within range. Only the first
// violation is reported.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	return describeFieldError(fieldErrs[0])
}

func describeFieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "min", "max":
		return fmt.Errorf("%s %v is out of range (%s)", fe.Field(), fe.Value(), fieldRange(fe))
	case "gt":
		return fmt.Errorf("%s %v must be positive", fe.Field(), fe.Value())
	case "required":
		return fmt.Errorf("%s must not be empty", fe.Field())
	default:
		return fmt.Errorf("%s %v failed %q", fe.Field(), fe.Value(), fe.Tag())
	}
}

// fieldRange renders the min/max bounds declared on the failing field.
func fieldRange(fe validator.FieldError) string {
	field, ok := reflect.TypeOf(Config{}).FieldByName(fe.StructField())
	if !ok {
		return fe.Param()
	}
	var lo, hi string
	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		key, val, _ := strings.Cut(rule, "=")
		switch key {
		case "min":
			lo = val
		case "max":
			hi = val
		}
	}
	return lo + "-" + hi
}
