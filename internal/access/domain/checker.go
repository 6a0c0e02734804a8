package domain

// RoleChecker derives boolean capability flags from a single role value.
// It is a pure, side-effect-free convenience for UI and CLI callers that
// branch on capability without re-deriving level comparisons inline.
type RoleChecker struct {
	role  Role
	level int
}

// NewRoleChecker creates a checker for the given role.
// Unknown role values fail closed with ErrUnknownRole.
func NewRoleChecker(role Role) (*RoleChecker, error) {
	level, err := role.Level()
	if err != nil {
		return nil, err
	}
	return &RoleChecker{role: role, level: level}, nil
}

// Role returns the role the checker was built from.
func (c *RoleChecker) Role() Role {
	return c.role
}

// Level returns the numeric privilege level of the role.
func (c *RoleChecker) Level() int {
	return c.level
}

// CanView reports whether the role is at least viewer. Always true for a
// valid role since viewer is the lowest level.
func (c *RoleChecker) CanView() bool {
	return c.level >= roleLevels[RoleViewer]
}

// CanAnalyze reports whether the role is at least analyst.
func (c *RoleChecker) CanAnalyze() bool {
	return c.level >= roleLevels[RoleAnalyst]
}

// CanOperate reports whether the role is at least operator.
func (c *RoleChecker) CanOperate() bool {
	return c.level >= roleLevels[RoleOperator]
}

// CanAdmin reports whether the role is at least admin.
func (c *RoleChecker) CanAdmin() bool {
	return c.level >= roleLevels[RoleAdmin]
}

// IsRoot reports whether the role is exactly root.
func (c *RoleChecker) IsRoot() bool {
	return c.level == roleLevels[RoleRoot]
}
