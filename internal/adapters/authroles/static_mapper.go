package authroles

import (
	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to primary roles by simple string
// membership, checking the most privileged group first. Members of no
// configured group get the base user role.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
	ManagerGroup    string
	EditorGroup     string
	ViewerGroup     string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.SuperAdminGroup, domainauth.RoleSuperAdmin},
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.ManagerGroup, domainauth.RoleManager},
		{m.EditorGroup, domainauth.RoleEditor},
		{m.ViewerGroup, domainauth.RoleViewer},
	}

	for _, entry := range ordered {
		if entry.group == "" {
			continue
		}
		for _, g := range groups {
			if g == entry.group {
				return entry.role
			}
		}
	}
	return domainauth.RoleUser
}
