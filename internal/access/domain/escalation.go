package domain

import (
	"time"

	"github.com/google/uuid"
)

// EscalationRequest asks to temporarily raise a user's effective role.
// The request is a value object; granting, time-bounding, and auditing an
// approved escalation are the responsibility of an external workflow engine.
type EscalationRequest struct {
	UserID        uuid.UUID
	CurrentRole   Role
	RequestedRole Role
	Reason        string
	Duration      time.Duration
}

// ValidateEscalation reports whether the request satisfies the escalation
// rules: the requested role is never root, and the requested role is exactly
// one level above the current role (never skips levels, never moves down).
// Unknown role values fail closed with ErrUnknownRole.
func ValidateEscalation(request EscalationRequest) (bool, error) {
	currentLevel, err := request.CurrentRole.Level()
	if err != nil {
		return false, err
	}
	requestedLevel, err := request.RequestedRole.Level()
	if err != nil {
		return false, err
	}

	// Root is only reachable via direct assignment.
	if request.RequestedRole == RoleRoot {
		return false, nil
	}

	return requestedLevel-currentLevel == 1, nil
}
