package domain

import "strings"

// Role identifies the privilege level supplied by the upstream gate for a request.
type Role string

const (
	// RoleAdmin may perform every admin mutation including destructive ones.
	RoleAdmin Role = "ADMIN"
	// RoleEditor may create and edit content but not delete pages, menus or media.
	RoleEditor Role = "EDITOR"
	// RoleViewer has read-only access to the admin surface.
	RoleViewer Role = "VIEWER"
)

// ParseRole normalises the supplied value into a known role.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEditor:
		return RoleEditor, true
	case RoleViewer:
		return RoleViewer, true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
