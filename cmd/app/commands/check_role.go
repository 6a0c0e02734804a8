package commands

import (
	"fmt"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	apperrors "github.com/empirehq/trustcore/internal/errors"
)

// RunCheckRole checks whether an actor role satisfies a required role and
// prints the decision. Denials exit non-zero so the command composes in
// scripts; unknown role names fail closed.
func RunCheckRole(io IOTuple, roleName, requiredName, auditAction string) error {
	actor, err := accessDomain.ParseRole(roleName)
	if err != nil {
		return fmt.Errorf("invalid --role: %w", err)
	}

	required, err := accessDomain.ParseRole(requiredName)
	if err != nil {
		return fmt.Errorf("invalid --required: %w", err)
	}

	guard := accessDomain.GuardSpec{
		Required:    required,
		AuditAction: auditAction,
	}

	if err := accessDomain.Authorize(actor, guard); err != nil {
		if apperrors.Is(err, apperrors.ErrForbidden) {
			fmt.Fprintf(io.Writer, "DENIED: %s\n", err.Error())
			if satisfying, rolesErr := accessDomain.AuthorizedRoles(required); rolesErr == nil {
				fmt.Fprintf(io.Writer, "Roles that satisfy: %v\n", satisfying)
			}
			return err
		}
		return err
	}

	checker, err := accessDomain.NewRoleChecker(actor)
	if err != nil {
		return err
	}

	fmt.Fprintf(io.Writer, "ALLOWED: role %q satisfies required role %q\n", actor, required)
	fmt.Fprintf(io.Writer, "Capabilities: view=%t analyze=%t operate=%t admin=%t root=%t\n",
		checker.CanView(), checker.CanAnalyze(), checker.CanOperate(), checker.CanAdmin(), checker.IsRoot())
	return nil
}
