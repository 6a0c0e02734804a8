// Package dto provides data transfer objects for HTTP request and response handling.
package dto

// CheckAccessResponse represents the outcome of an authorization decision.
// Denied checks are returned as 403 responses instead, so Allowed is always
// true when this body is present.
type CheckAccessResponse struct {
	Allowed      bool   `json:"allowed"`
	ActorRole    string `json:"actor_role"`
	RequiredRole string `json:"required_role"`
	AuditAction  string `json:"audit_action,omitempty"`
	Resource     string `json:"resource,omitempty"`
}

// ValidateEscalationResponse represents the outcome of an escalation validation.
type ValidateEscalationResponse struct {
	Valid         bool   `json:"valid"`
	CurrentRole   string `json:"current_role"`
	RequestedRole string `json:"requested_role"`
	Message       string `json:"message,omitempty"`
}
