package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserHasPermission(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		perm        Permission
		want        bool
	}{
		{
			name:        "exact match",
			permissions: []string{"reports:read"},
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        true,
		},
		{
			name:        "full wildcard matches everything",
			permissions: []string{"*:*"},
			perm:        Permission{Resource: "settings", Action: "delete"},
			want:        true,
		},
		{
			name:        "resource wildcard with exact action",
			permissions: []string{"*:read"},
			perm:        Permission{Resource: "orders", Action: "read"},
			want:        true,
		},
		{
			name:        "action wildcard with exact resource",
			permissions: []string{"orders:*"},
			perm:        Permission{Resource: "orders", Action: "cancel"},
			want:        true,
		},
		{
			name:        "action wildcard does not match other resource",
			permissions: []string{"orders:*"},
			perm:        Permission{Resource: "settings", Action: "cancel"},
			want:        false,
		},
		{
			name:        "no partial string match on resource",
			permissions: []string{"orders:read"},
			perm:        Permission{Resource: "order", Action: "read"},
			want:        false,
		},
		{
			name:        "case sensitive",
			permissions: []string{"Reports:read"},
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        false,
		},
		{
			name:        "malformed grant never matches",
			permissions: []string{"reports", "reports:read:extra"},
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        false,
		},
		{
			name:        "second grant matches",
			permissions: []string{"settings:write", "reports:read"},
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        true,
		},
		{
			name:        "nil permission set",
			permissions: nil,
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        false,
		},
		{
			name:        "empty permission set",
			permissions: []string{},
			perm:        Permission{Resource: "reports", Action: "read"},
			want:        false,
		},
		{
			name:        "empty resource query never matches",
			permissions: []string{"*:*"},
			perm:        Permission{Resource: "", Action: "read"},
			want:        false,
		},
		{
			name:        "empty action query never matches",
			permissions: []string{"*:*"},
			perm:        Permission{Resource: "reports", Action: ""},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{
				ID:          uuid.Must(uuid.NewV7()),
				Email:       "user@example.com",
				Role:        RoleAnalyst,
				Permissions: tt.permissions,
			}
			assert.Equal(t, tt.want, user.HasPermission(tt.perm))
		})
	}
}

func TestPermissionString(t *testing.T) {
	perm := Permission{Resource: "reports", Action: "read"}
	assert.Equal(t, "reports:read", perm.String())
}
