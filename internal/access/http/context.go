// Package http provides HTTP middleware and handlers for authorization decisions.
package http

import (
	"context"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
)

// actorRoleKey is a context key type for storing the caller's role.
type actorRoleKey struct{}

// actorGrantsKey is a context key type for storing the caller's permission grants.
type actorGrantsKey struct{}

// WithActorRole stores the caller's role in the context.
// This is typically called by ActorMiddleware after parsing the role header.
func WithActorRole(ctx context.Context, role accessDomain.Role) context.Context {
	return context.WithValue(ctx, actorRoleKey{}, role)
}

// GetActorRole retrieves the caller's role from the context.
// Returns (role, true) if a role is present, or ("", false) if no role was set.
func GetActorRole(ctx context.Context) (accessDomain.Role, bool) {
	role, ok := ctx.Value(actorRoleKey{}).(accessDomain.Role)
	return role, ok
}

// WithActorGrants stores the caller's permission grants in the context.
func WithActorGrants(ctx context.Context, grants []string) context.Context {
	return context.WithValue(ctx, actorGrantsKey{}, grants)
}

// GetActorGrants retrieves the caller's permission grants from the context.
// Returns (grants, true) if grants are present, or (nil, false) if none were set.
func GetActorGrants(ctx context.Context) ([]string, bool) {
	grants, ok := ctx.Value(actorGrantsKey{}).([]string)
	return grants, ok
}
