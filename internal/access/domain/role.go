// Package domain defines the access-control domain models for the trust core.
//
// It provides a fixed, totally ordered role hierarchy for coarse authorization,
// fine-grained resource:action permission matching, guard checkpoints for protected
// operations, and validation of bounded role escalation requests.
package domain

import (
	"strings"
)

// Role is one of the five ordered privilege levels. Every pair of roles is
// comparable; comparison is always by numeric level, never by string equality.
type Role string

const (
	// RoleViewer is the lowest privilege level, allowing read-only access.
	RoleViewer Role = "viewer"

	// RoleAnalyst allows running analyses on top of viewer access.
	RoleAnalyst Role = "analyst"

	// RoleOperator allows operational changes on top of analyst access.
	RoleOperator Role = "operator"

	// RoleAdmin allows administrative changes on top of operator access.
	RoleAdmin Role = "admin"

	// RoleRoot is the highest privilege level. It is never reachable via
	// escalation, only via direct assignment.
	RoleRoot Role = "root"
)

// rolesAscending lists every role ordered by ascending privilege level.
// The slice index of a role is its numeric level.
var rolesAscending = []Role{RoleViewer, RoleAnalyst, RoleOperator, RoleAdmin, RoleRoot}

// roleLevels maps each role to its numeric level.
var roleLevels = func() map[Role]int {
	m := make(map[Role]int, len(rolesAscending))
	for i, r := range rolesAscending {
		m[r] = i
	}
	return m
}()

// Level returns the numeric privilege level of the role.
// Role comparison is a security boundary, so unknown role values fail closed
// with ErrUnknownRole instead of defaulting to any level.
func (r Role) Level() (int, error) {
	level, ok := roleLevels[r]
	if !ok {
		return 0, ErrUnknownRole
	}
	return level, nil
}

// String returns the canonical lower-case name of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role. Parsing is case-insensitive so
// callers may send "VIEWER" or "viewer". Unknown values fail closed with
// ErrUnknownRole.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleLevels[role]; !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Can reports whether the actor role meets or exceeds the required role.
// Returns ErrUnknownRole if either role is invalid.
func Can(actor, required Role) (bool, error) {
	actorLevel, err := actor.Level()
	if err != nil {
		return false, err
	}
	requiredLevel, err := required.Level()
	if err != nil {
		return false, err
	}
	return actorLevel >= requiredLevel, nil
}

// AuthorizedRoles returns every role at or above minRole, ordered ascending
// by privilege level. Returns ErrUnknownRole if minRole is invalid.
func AuthorizedRoles(minRole Role) ([]Role, error) {
	minLevel, err := minRole.Level()
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(rolesAscending)-minLevel)
	roles = append(roles, rolesAscending[minLevel:]...)
	return roles, nil
}

// Roles returns every role ordered ascending by privilege level.
func Roles() []Role {
	roles := make([]Role, len(rolesAscending))
	copy(roles, rolesAscending)
	return roles
}
