// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleManager    Role = "manager"
	RoleViewer     Role = "viewer"
	RoleEditor     Role = "editor"
)

// Valid returns true if the role is one of the known primary roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin, RoleManager, RoleViewer, RoleEditor:
		return true
	default:
		return false
	}
}

// CollaboratorRole is the sub-role granted to a collaborator session.
// Values outside {viewer, manager} are treated as "no valid collaborator
// role" rather than an error.
type CollaboratorRole string

const (
	CollaboratorViewer  CollaboratorRole = "viewer"
	CollaboratorManager CollaboratorRole = "manager"
)

// Valid returns true if the collaborator role is viewer or manager.
func (r CollaboratorRole) Valid() bool {
	return r == CollaboratorViewer || r == CollaboratorManager
}

// Token returns the synthetic role token used by HasRole matching,
// e.g. "collaborator-manager". Empty for invalid collaborator roles.
func (r CollaboratorRole) Token() string {
	if !r.Valid() {
		return ""
	}
	return "collaborator-" + string(r)
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID            string // stable user identifier (e.g., sub)
	Name              string
	Email             string
	Groups            []string
	IsCollaborator    bool
	CollaboratorRole  CollaboratorRole
	CollaboratorEmail string
	ExpiresAt         time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Name              string           `json:"name,omitempty"`
	Email             string           `json:"email"`
	Role              Role             `json:"role"`
	IsCollaborator    bool             `json:"is_collaborator,omitempty"`
	CollaboratorRole  CollaboratorRole `json:"collaborator_role,omitempty"`
	CollaboratorEmail string           `json:"collaborator_email,omitempty"`
	ExpiresAt         time.Time        `json:"expires_at"`
}
