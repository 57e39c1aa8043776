package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/lumenworks/sectioncms/internal/domain"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	ResourcePages    = "pages"
	ResourceSections = "sections"
	ResourceMenus    = "menus"
	ResourceMedia    = "media"
	ResourceUsers    = "users"
)

var (
	Pages    = ResourcePermissions(ResourcePages)
	Sections = ResourcePermissions(ResourceSections)
	Menus    = ResourcePermissions(ResourceMenus)
	Media    = ResourcePermissions(ResourceMedia)
	Users    = ResourcePermissions(ResourceUsers)
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// PermissionSet captures the CRUD permission tokens of one resource.
type PermissionSet struct {
	Read   string `json:"read,omitempty"`
	Create string `json:"create,omitempty"`
	Update string `json:"update,omitempty"`
	Delete string `json:"delete,omitempty"`
}

// ResourcePermissions creates a permission set for a resource.
func ResourcePermissions(resource string) PermissionSet {
	normalized := normalizeToken(resource)
	return PermissionSet{
		Read:   Join(normalized, ActionRead),
		Create: Join(normalized, ActionCreate),
		Update: Join(normalized, ActionUpdate),
		Delete: Join(normalized, ActionDelete),
	}
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// List returns the non-empty permissions in the set.
func (p PermissionSet) List() []string {
	out := make([]string, 0, 4)
	for _, perm := range []string{p.Read, p.Create, p.Update, p.Delete} {
		if perm != "" {
			out = append(out, perm)
		}
	}
	return out
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, _ := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	_, ok := s["*"]
	return ok
}

// RolePermissions returns the grant set of a role. Editors manage content but only
// admins delete pages, menus or media and manage users. Unknown roles get nothing.
func RolePermissions(role domain.Role) Set {
	switch role {
	case domain.RoleAdmin:
		return NewSet("*")
	case domain.RoleEditor:
		return NewSet(
			Pages.Read, Pages.Create, Pages.Update,
			"sections:*",
			Menus.Read, Menus.Create, Menus.Update,
			Media.Read, Media.Create, Media.Update,
		)
	case domain.RoleViewer:
		return NewSet(Pages.Read, Sections.Read, Menus.Read, Media.Read)
	default:
		return Set{}
	}
}

type contextKey string

const (
	checkerKey contextKey = "cms.permissions.checker"
	roleKey    contextKey = "cms.permissions.role"
)

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPermissions stores a static permission set on the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil || len(perms) == 0 {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// WithRole stores role and its grant set on the context.
func WithRole(ctx context.Context, role domain.Role) context.Context {
	if ctx == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, roleKey, role)
	return WithChecker(ctx, RolePermissions(role))
}

// RoleFromContext returns the role stored by WithRole.
func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	switch typed := ctx.Value(checkerKey).(type) {
	case Checker:
		return typed
	case []string:
		return NewSet(typed...)
	default:
		return nil
	}
}

// Allowed reports whether the provided permission is allowed for the context.
// Contexts without a checker belong to trusted in-process callers and are allowed.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require enforces a permission requirement when a checker is available on the context.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return nil
	}
	if checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

func splitPermission(permission string) (string, Action) {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return "", ""
	}
	parts := strings.SplitN(normalized, ":", 2)
	resource := normalizeToken(parts[0])
	if len(parts) == 1 {
		return resource, ""
	}
	return resource, Action(normalizeToken(parts[1]))
}

func normalizePermission(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
