package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAccessRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CheckAccessRequest
		shouldErr bool
	}{
		{
			name: "valid request",
			request: CheckAccessRequest{
				ActorRole:    "operator",
				RequiredRole: "analyst",
				AuditAction:  "report:read",
				Resource:     "reports/42",
			},
			shouldErr: false,
		},
		{
			name: "valid without optional fields",
			request: CheckAccessRequest{
				ActorRole:    "viewer",
				RequiredRole: "viewer",
			},
			shouldErr: false,
		},
		{
			name: "missing actor role",
			request: CheckAccessRequest{
				RequiredRole: "admin",
			},
			shouldErr: true,
		},
		{
			name: "unknown actor role",
			request: CheckAccessRequest{
				ActorRole:    "superuser",
				RequiredRole: "admin",
			},
			shouldErr: true,
		},
		{
			name: "unknown required role",
			request: CheckAccessRequest{
				ActorRole:    "admin",
				RequiredRole: "owner",
			},
			shouldErr: true,
		},
		{
			name: "padded audit action",
			request: CheckAccessRequest{
				ActorRole:    "admin",
				RequiredRole: "viewer",
				AuditAction:  " settings:update ",
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEscalationRequest_Validate(t *testing.T) {
	valid := ValidateEscalationRequest{
		UserID:          "7a9f7a22-94a9-4f68-9d73-3bb2f74f9e41",
		CurrentRole:     "analyst",
		RequestedRole:   "operator",
		Reason:          "incident response for SEV-2",
		DurationSeconds: 3600,
	}

	t.Run("valid request", func(t *testing.T) {
		request := valid
		assert.NoError(t, request.Validate())
	})

	t.Run("invalid user id", func(t *testing.T) {
		request := valid
		request.UserID = "not-a-uuid"
		assert.Error(t, request.Validate())
	})

	t.Run("blank reason", func(t *testing.T) {
		request := valid
		request.Reason = "   "
		assert.Error(t, request.Validate())
	})

	t.Run("duration below one minute", func(t *testing.T) {
		request := valid
		request.DurationSeconds = 30
		assert.Error(t, request.Validate())
	})

	t.Run("duration above eight hours", func(t *testing.T) {
		request := valid
		request.DurationSeconds = 9 * 3600
		assert.Error(t, request.Validate())
	})

	t.Run("unknown requested role", func(t *testing.T) {
		request := valid
		request.RequestedRole = "god"
		assert.Error(t, request.Validate())
	})
}
