// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/empirehq/trustcore/internal/validation"
)

// validUUID checks that a string parses as a UUID.
var validUUID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
})

// CheckAccessRequest contains the parameters for an authorization decision.
type CheckAccessRequest struct {
	ActorRole    string `json:"actor_role"`
	RequiredRole string `json:"required_role"`
	AuditAction  string `json:"audit_action"`
	Resource     string `json:"resource"`
}

// Validate checks if the access check request is valid.
func (r *CheckAccessRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ActorRole,
			validation.Required,
			customValidation.Role,
		),
		validation.Field(&r.RequiredRole,
			validation.Required,
			customValidation.Role,
		),
		validation.Field(&r.AuditAction,
			customValidation.NoWhitespace,
			validation.Length(0, 128),
		),
		validation.Field(&r.Resource,
			customValidation.NoWhitespace,
			validation.Length(0, 256),
		),
	)
}

// ValidateEscalationRequest contains the parameters for validating a
// temporary role escalation.
type ValidateEscalationRequest struct {
	UserID          string `json:"user_id"`
	CurrentRole     string `json:"current_role"`
	RequestedRole   string `json:"requested_role"`
	Reason          string `json:"reason"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// Validate checks if the escalation validation request is valid.
func (r *ValidateEscalationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.Required,
			validUUID,
		),
		validation.Field(&r.CurrentRole,
			validation.Required,
			customValidation.Role,
		),
		validation.Field(&r.RequestedRole,
			validation.Required,
			customValidation.Role,
		),
		validation.Field(&r.Reason,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 512),
		),
		validation.Field(&r.DurationSeconds,
			validation.Required,
			customValidation.EscalationDuration{Min: time.Minute, Max: 8 * time.Hour},
		),
	)
}
