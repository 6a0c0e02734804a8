package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
	"github.com/empirehq/trustcore/internal/access/http/dto"
	"github.com/empirehq/trustcore/internal/httputil"
	"github.com/empirehq/trustcore/internal/metrics"
	customValidation "github.com/empirehq/trustcore/internal/validation"
)

// AccessHandler handles HTTP requests for authorization decisions.
type AccessHandler struct {
	accessMetrics metrics.AccessMetrics
	logger        *slog.Logger
}

// NewAccessHandler creates a new access handler with required dependencies.
func NewAccessHandler(accessMetrics metrics.AccessMetrics, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		accessMetrics: accessMetrics,
		logger:        logger,
	}
}

// CheckHandler evaluates an authorization decision for a role pair.
// POST /v1/access/check
// Returns 200 OK when the actor role satisfies the required role, 403 with
// the guard structure when it does not.
func (h *AccessHandler) CheckHandler(c *gin.Context) {
	var req dto.CheckAccessRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Roles already passed validation, parse cannot fail here.
	actor, _ := accessDomain.ParseRole(req.ActorRole)
	required, _ := accessDomain.ParseRole(req.RequiredRole)

	guard := accessDomain.GuardSpec{
		Required:    required,
		AuditAction: req.AuditAction,
		Resource:    req.Resource,
	}

	if err := accessDomain.Authorize(actor, guard); err != nil {
		h.accessMetrics.RecordCheck(c.Request.Context(), "access_check", "forbidden")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.accessMetrics.RecordCheck(c.Request.Context(), "access_check", "allowed")
	c.JSON(http.StatusOK, dto.CheckAccessResponse{
		Allowed:      true,
		ActorRole:    actor.String(),
		RequiredRole: required.String(),
		AuditAction:  req.AuditAction,
		Resource:     req.Resource,
	})
}

// ValidateEscalationHandler validates a temporary role escalation request.
// POST /v1/escalations/validate
// Returns 200 OK with the validation outcome; an invalid escalation is a
// normal outcome, not an error.
func (h *AccessHandler) ValidateEscalationHandler(c *gin.Context) {
	var req dto.ValidateEscalationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// All fields already passed validation.
	userID, _ := uuid.Parse(req.UserID)
	currentRole, _ := accessDomain.ParseRole(req.CurrentRole)
	requestedRole, _ := accessDomain.ParseRole(req.RequestedRole)

	escalation := accessDomain.EscalationRequest{
		UserID:        userID,
		CurrentRole:   currentRole,
		RequestedRole: requestedRole,
		Reason:        req.Reason,
		Duration:      time.Duration(req.DurationSeconds) * time.Second,
	}

	valid, err := accessDomain.ValidateEscalation(escalation)
	if err != nil {
		h.accessMetrics.RecordCheck(c.Request.Context(), "escalation_validate", "error")
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.ValidateEscalationResponse{
		Valid:         valid,
		CurrentRole:   currentRole.String(),
		RequestedRole: requestedRole.String(),
	}

	if valid {
		h.accessMetrics.RecordCheck(c.Request.Context(), "escalation_validate", "valid")
		h.logger.Info("escalation request validated",
			slog.String("user_id", userID.String()),
			slog.String("current_role", currentRole.String()),
			slog.String("requested_role", requestedRole.String()),
			slog.Duration("duration", escalation.Duration),
		)
	} else {
		h.accessMetrics.RecordCheck(c.Request.Context(), "escalation_validate", "invalid")
		response.Message = escalationDenialMessage(escalation)
	}

	c.JSON(http.StatusOK, response)
}

// escalationDenialMessage explains why an escalation request is invalid.
func escalationDenialMessage(escalation accessDomain.EscalationRequest) string {
	if escalation.RequestedRole == accessDomain.RoleRoot {
		return "root is only reachable via direct assignment"
	}
	return "escalations must raise the role by exactly one level"
}
