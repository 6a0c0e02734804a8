package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permission is a query against a user's permission set. Grants are stored as
// "resource:action" strings; a Permission asks whether a concrete pair is covered.
type Permission struct {
	Resource string
	Action   string
}

// String returns the "resource:action" form of the permission.
func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

// User represents an authenticated actor. A user holds a coarse role and may
// additionally hold a fine-grained permission set; the two mechanisms compose
// but are checked separately by callers.
type User struct {
	ID          uuid.UUID
	Email       string
	Role        Role
	Permissions []string // "resource:action" grants, wildcards allowed
	CreatedAt   time.Time
}

// matchGrant checks if a single "resource:action" grant covers the permission.
// Matching is segment-wise: the grant is split on ":" and each side must either
// be the full wildcard "*" or match exactly. Malformed grants never match.
//
// Examples:
//   - "*:*" covers everything
//   - "reports:read" covers only {reports, read}
//   - "reports:*" covers any action on "reports"
//   - "*:read" covers the "read" action on any resource
func matchGrant(grant string, perm Permission) bool {
	parts := strings.Split(grant, ":")
	if len(parts) != 2 {
		return false
	}
	if parts[0] != "*" && parts[0] != perm.Resource {
		return false
	}
	if parts[1] != "*" && parts[1] != perm.Action {
		return false
	}
	return true
}

// HasPermission reports whether the user's permission set covers the given
// resource:action pair, either exactly or via wildcards. Returns false when
// the user holds no permissions or when the query is incomplete. Matching is
// case-sensitive and independent of the user's role.
func (u *User) HasPermission(perm Permission) bool {
	if perm.Resource == "" || perm.Action == "" {
		return false
	}

	for _, grant := range u.Permissions {
		if matchGrant(grant, perm) {
			return true
		}
	}

	return false
}
