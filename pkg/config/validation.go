package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed validation on %q", e.Field, e.Tag)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for i := range e {
		messages = append(messages, e[i].Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Validator provides configuration validation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	return &Validator{validate: validator.New()}, nil
}

// ValidateConfig validates a configuration struct against its declared
// constraints plus the cross-field rules the struct tags cannot express.
func (v *Validator) ValidateConfig(config *Config) error {
	if config == nil {
		return ValidationErrors{
			ValidationError{
				Field:   "config",
				Tag:     "required",
				Message: "config is nil",
			},
		}
	}

	var validationErrors ValidationErrors

	if err := v.validate.Struct(config); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range errs {
				validationErrors = append(validationErrors, ValidationError{
					Field:   e.Field(),
					Tag:     e.Tag(),
					Value:   e.Value(),
					Message: getValidationMessage(e),
				})
			}
		} else {
			validationErrors = append(validationErrors, ValidationError{
				Message: err.Error(),
			})
		}
	}

	validationErrors = append(validationErrors, v.validateCustomRules(config)...)

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

// validateCustomRules covers constraints outside the tag vocabulary.
func (v *Validator) validateCustomRules(config *Config) ValidationErrors {
	var errors ValidationErrors

	switch config.Cache.Type {
	case "", "memory", "sqlite":
	default:
		errors = append(errors, ValidationError{
			Field:   "Cache.Type",
			Tag:     "oneof",
			Value:   config.Cache.Type,
			Message: fmt.Sprintf("cache type must be memory or sqlite, got %q", config.Cache.Type),
		})
	}

	if config.Cache.Type == "sqlite" && config.Cache.SQLiteConfig.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "Cache.SQLiteConfig.Path",
			Tag:     "required",
			Message: "sqlite cache requires a database path",
		})
	}

	return errors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gtecsfield":
		return fmt.Sprintf("%s must not be below %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation on %q", e.Field(), e.Tag())
	}
}
