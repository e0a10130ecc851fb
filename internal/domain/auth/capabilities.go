package auth

// Capabilities is the set of named boolean flags the UI keys its
// conditionals on. It is derived, never stored: a pure function of the
// session's (Role, IsCollaborator, CollaboratorRole) triple, recomputed
// whenever the session changes.
type Capabilities struct {
	IsAdmin               bool `json:"isAdmin"`
	IsSuperAdmin          bool `json:"isSuperAdmin"`
	IsManager             bool `json:"isManager"`
	IsViewer              bool `json:"isViewer"`
	IsEditor              bool `json:"isEditor"`
	IsCollaboratorViewer  bool `json:"isCollaboratorViewer"`
	IsCollaboratorManager bool `json:"isCollaboratorManager"`

	// role and collaboratorToken back the HasRole predicate. Unexported so
	// flags cannot drift from the session they were derived from.
	role              Role
	collaboratorToken string
}

// Derive computes capability flags for a session.
//
// A nil session (anonymous) yields zero capabilities and a HasRole that is
// always false. Unknown or missing roles degrade to no capabilities rather
// than erroring; collaborator flags require both IsCollaborator=true and a
// valid collaborator role. Derive is total and has no side effects.
func Derive(sess *Session) Capabilities {
	if sess == nil {
		return Capabilities{}
	}

	caps := Capabilities{
		IsAdmin:      sess.Role == RoleAdmin,
		IsSuperAdmin: sess.Role == RoleSuperAdmin,
		IsManager:    sess.Role == RoleManager,
		IsViewer:     sess.Role == RoleViewer,
		IsEditor:     sess.Role == RoleEditor,
	}

	// HasRole matches the primary role verbatim, known or not; only the
	// named flags are restricted to the fixed enumeration.
	caps.role = sess.Role

	if sess.IsCollaborator && sess.CollaboratorRole.Valid() {
		caps.IsCollaboratorViewer = sess.CollaboratorRole == CollaboratorViewer
		caps.IsCollaboratorManager = sess.CollaboratorRole == CollaboratorManager
		caps.collaboratorToken = sess.CollaboratorRole.Token()
	}

	return caps
}

// HasRole reports whether the derived session matches any of the requested
// role names. Matching is exact and case-sensitive against the primary role
// and, when the collaborator is active, the synthetic "collaborator-<role>"
// token.
func (c Capabilities) HasRole(roles ...string) bool {
	for _, r := range roles {
		if c.role != "" && r == string(c.role) {
			return true
		}
		if c.collaboratorToken != "" && r == c.collaboratorToken {
			return true
		}
	}
	return false
}
