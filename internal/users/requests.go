package users

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/validation"
)

// MinPasswordLength is the shortest password accepted on create.
const MinPasswordLength = 8

type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

func (r CreateUserRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Email, ozzo.Required, ozzo.Length(3, 254), is.EmailFormat),
		// bcrypt ignores input past 72 bytes.
		ozzo.Field(&r.Password, ozzo.Required, ozzo.Length(MinPasswordLength, 72)),
		ozzo.Field(&r.Role, ozzo.By(knownRole)),
	))
}

type UpdateRoleRequest struct {
	ID   int64       `json:"-"`
	Role domain.Role `json:"role"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.FromRules(ozzo.ValidateStruct(&r,
		ozzo.Field(&r.ID, ozzo.Required, ozzo.Min(int64(1))),
		ozzo.Field(&r.Role, ozzo.Required, ozzo.By(knownRole)),
	))
}

// NormalizeEmail trims and lowercases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func knownRole(value any) error {
	role, _ := value.(domain.Role)
	if role == "" || role.Valid() {
		return nil
	}
	return ozzo.NewError("validation_user_role", "must be one of ADMIN, EDITOR or VIEWER")
}
