package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/empirehq/trustcore/internal/errors"
)

func TestRole(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		shouldErr bool
	}{
		{
			name:      "valid lowercase role",
			value:     "viewer",
			shouldErr: false,
		},
		{
			name:      "valid mixed case role",
			value:     "Admin",
			shouldErr: false,
		},
		{
			name:      "unknown role",
			value:     "superuser",
			shouldErr: true,
		},
		{
			name:      "empty string passes through to Required",
			value:     "",
			shouldErr: false,
		},
		{
			name:      "non-string value",
			value:     42,
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Role.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEscalationDuration(t *testing.T) {
	rule := EscalationDuration{
		Min: time.Minute,
		Max: 8 * time.Hour,
	}

	tests := []struct {
		name      string
		value     interface{}
		shouldErr bool
		errMsg    string
	}{
		{
			name:      "within window",
			value:     time.Hour,
			shouldErr: false,
		},
		{
			name:      "exactly minimum",
			value:     time.Minute,
			shouldErr: false,
		},
		{
			name:      "exactly maximum",
			value:     8 * time.Hour,
			shouldErr: false,
		},
		{
			name:      "too short",
			value:     30 * time.Second,
			shouldErr: true,
			errMsg:    "at least",
		},
		{
			name:      "too long",
			value:     24 * time.Hour,
			shouldErr: true,
			errMsg:    "at most",
		},
		{
			name:      "int64 seconds within window",
			value:     int64(3600),
			shouldErr: false,
		},
		{
			name:      "int64 seconds too short",
			value:     int64(30),
			shouldErr: true,
			errMsg:    "at least",
		},
		{
			name:      "not a duration",
			value:     "1h",
			shouldErr: true,
			errMsg:    "must be a duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.value)
			if tt.shouldErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEscalationDuration_NoMax(t *testing.T) {
	rule := EscalationDuration{Min: time.Minute}

	assert.NoError(t, rule.Validate(1000*time.Hour))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("reason"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("clean"))
	assert.Error(t, NoWhitespace.Validate(" padded "))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("error wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
