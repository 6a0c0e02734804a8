package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	apperrors "github.com/empirehq/trustcore/internal/errors"
	"github.com/empirehq/trustcore/internal/httputil"
)

// Headers carrying the caller's identity on internal networks. The edge proxy
// is expected to strip and re-set these after authenticating the caller.
const (
	ActorRoleHeader   = "X-Actor-Role"
	ActorGrantsHeader = "X-Actor-Permissions"
)

// ActorMiddleware parses the caller's role and permission grants from request
// headers and stores them in the request context.
//
// Error handling:
//   - Missing role header → 401 Unauthorized
//   - Unknown role name → 401 Unauthorized (fail closed, never a default role)
func ActorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleHeader := c.GetHeader(ActorRoleHeader)
		if roleHeader == "" {
			logger.Debug("actor resolution failed: missing role header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		role, err := accessDomain.ParseRole(roleHeader)
		if err != nil {
			logger.Debug("actor resolution failed: unknown role",
				slog.String("role", roleHeader))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithActorRole(c.Request.Context(), role)

		if grantsHeader := c.GetHeader(ActorGrantsHeader); grantsHeader != "" {
			grants := strings.Split(grantsHeader, ",")
			for i := range grants {
				grants[i] = strings.TrimSpace(grants[i])
			}
			ctx = WithActorGrants(ctx, grants)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole guards a route with a minimum role. It MUST be used after
// ActorMiddleware. Denials carry the guard structure (required role, actual
// role, audit action) in the 403 body.
func RequireRole(guard accessDomain.GuardSpec, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorRole(c.Request.Context())
		if !ok {
			// ActorMiddleware was not run for this route.
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if err := accessDomain.Authorize(actor, guard); err != nil {
			logger.Info("authorization denied",
				slog.String("actual_role", actor.String()),
				slog.String("required_role", guard.Required.String()),
				slog.String("audit_action", guard.AuditAction),
			)
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission guards a route with a specific permission, matched against
// the caller's grants with wildcard support. It MUST be used after
// ActorMiddleware. Callers with no grants are denied.
func RequirePermission(perm accessDomain.Permission, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		grants, ok := GetActorGrants(c.Request.Context())
		if !ok {
			logger.Debug("permission check failed: no grants in context",
				slog.String("resource", perm.Resource),
				slog.String("action", perm.Action),
			)
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		user := accessDomain.User{Permissions: grants}
		if !user.HasPermission(perm) {
			logger.Info("permission denied",
				slog.String("resource", perm.Resource),
				slog.String("action", perm.Action),
			)
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
