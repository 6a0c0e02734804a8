package domain

import (
	"fmt"

	"github.com/empirehq/trustcore/internal/errors"
)

// GuardSpec declares the minimum role needed for a protected operation.
// AuditAction names the operation for audit-log emission by the caller
// (e.g. "settings:update"); Resource optionally names the affected resource.
type GuardSpec struct {
	Required    Role
	AuditAction string
	Resource    string
}

// ForbiddenError is raised when an actor's role is insufficient for a guarded
// operation. It carries structured fields for programmatic audit-log emission
// and names both roles in its message for operator debuggability.
type ForbiddenError struct {
	Required    Role
	Actual      Role
	AuditAction string
	Resource    string
}

// Error returns a message naming both the required and the actual role.
func (e *ForbiddenError) Error() string {
	if e.AuditAction != "" {
		return fmt.Sprintf(
			"forbidden: %s requires role %q, actor has role %q",
			e.AuditAction, e.Required, e.Actual,
		)
	}
	return fmt.Sprintf("forbidden: requires role %q, actor has role %q", e.Required, e.Actual)
}

// Unwrap makes the error match errors.ErrForbidden so handlers can map it
// to HTTP 403 with errors.Is.
func (e *ForbiddenError) Unwrap() error {
	return errors.ErrForbidden
}

// Authorize checks the actor role against the guard and raises a typed
// *ForbiddenError when the role is insufficient. Unknown role values fail
// closed with ErrUnknownRole. On success it returns nil with no side effect;
// audit logging of the success path is the caller's responsibility.
func Authorize(actor Role, guard GuardSpec) error {
	allowed, err := Can(actor, guard.Required)
	if err != nil {
		return err
	}
	if !allowed {
		return &ForbiddenError{
			Required:    guard.Required,
			Actual:      actor,
			AuditAction: guard.AuditAction,
			Resource:    guard.Resource,
		}
	}
	return nil
}
