package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
)

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{
		SuperAdminGroup: "tp-superadmins",
		AdminGroup:      "tp-admins",
		ManagerGroup:    "tp-managers",
		EditorGroup:     "tp-editors",
		ViewerGroup:     "tp-viewers",
	}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"no groups", nil, domainauth.RoleUser},
		{"unknown groups", []string{"something-else"}, domainauth.RoleUser},
		{"viewer", []string{"tp-viewers"}, domainauth.RoleViewer},
		{"admin", []string{"tp-admins"}, domainauth.RoleAdmin},
		{"most privileged wins", []string{"tp-viewers", "tp-superadmins"}, domainauth.RoleSuperAdmin},
		{"admin beats editor", []string{"tp-editors", "tp-admins"}, domainauth.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapperIgnoresEmptyConfig(t *testing.T) {
	// An unset group name must never match anything.
	mapper := StaticRoleMapper{AdminGroup: "tp-admins"}
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{""}))
	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"tp-admins"}))
}
