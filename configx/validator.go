package configx

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatorOption configures the validator.
type ValidatorOption func(*validator.Validate)

// NewValidator creates a new validator instance.
// The returned validator is safe for concurrent use once built.
func NewValidator(opts ...ValidatorOption) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithFieldNamesFrom reports field paths using the given struct tag (for example
// "yaml" or "koanf") instead of Go field names. Fields tagged "-" are skipped.
func WithFieldNamesFrom(tag string) ValidatorOption {
	return func(v *validator.Validate) {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
	}
}

// WithRule registers a custom validation tag. It panics when registration
// fails, which only happens for an empty tag or nil function.
func WithRule(tag string, fn validator.Func) ValidatorOption {
	return func(v *validator.Validate) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("configx: register rule %q: %v", tag, err))
		}
	}
}

// ValidateStruct validates a struct using validator tags.
// validator.ValidationErrors stays reachable through errors.As.
func ValidateStruct(v *validator.Validate, target any) error {
	if v == nil {
		v = NewValidator()
	}

	if err := v.Struct(target); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// FieldPath strips the root struct name from a validator namespace
// ("settings.workers" becomes "workers").
func FieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}
