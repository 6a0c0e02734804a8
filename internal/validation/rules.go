// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	apperrors "github.com/empirehq/trustcore/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Role validates that a string names a known role, case-insensitively.
var Role = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_role_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := accessDomain.ParseRole(s); err != nil {
		return validation.NewError("validation_role", "must be a known role name")
	}
	return nil
})

// EscalationDuration validates the requested duration of a role escalation.
// It accepts a time.Duration or an int64 number of seconds, so it works on
// both domain values and wire-format request fields.
type EscalationDuration struct {
	Min time.Duration
	Max time.Duration
}

// Validate checks that the duration is positive and within the configured window.
func (r EscalationDuration) Validate(value interface{}) error {
	var d time.Duration
	switch v := value.(type) {
	case time.Duration:
		d = v
	case int64:
		d = time.Duration(v) * time.Second
	default:
		return validation.NewError("validation_duration_type", "must be a duration")
	}

	if d < r.Min {
		return validation.NewError(
			"validation_duration_min",
			"duration must be at least "+r.Min.String(),
		)
	}

	if r.Max > 0 && d > r.Max {
		return validation.NewError(
			"validation_duration_max",
			"duration must be at most "+r.Max.String(),
		)
	}

	return nil
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
