package commands

import (
	"fmt"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
)

// RunValidateEscalation validates a role escalation request and prints the
// outcome. An invalid escalation exits non-zero; unknown role names fail
// closed.
func RunValidateEscalation(io IOTuple, currentName, requestedName, reason string) error {
	current, err := accessDomain.ParseRole(currentName)
	if err != nil {
		return fmt.Errorf("invalid --current: %w", err)
	}

	requested, err := accessDomain.ParseRole(requestedName)
	if err != nil {
		return fmt.Errorf("invalid --requested: %w", err)
	}

	valid, err := accessDomain.ValidateEscalation(accessDomain.EscalationRequest{
		CurrentRole:   current,
		RequestedRole: requested,
		Reason:        reason,
	})
	if err != nil {
		return err
	}

	if !valid {
		fmt.Fprintf(io.Writer, "INVALID: %q -> %q is not a single-step escalation\n", current, requested)
		return fmt.Errorf("escalation from %q to %q is not allowed", current, requested)
	}

	fmt.Fprintf(io.Writer, "VALID: %q -> %q\n", current, requested)
	return nil
}
