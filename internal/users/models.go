package users

import (
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/uptrace/bun"
)

// User is an admin principal. Its role is what the upstream gate forwards with
// each admin request.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64       `bun:"id,pk,autoincrement" json:"id"`
	Email        string      `bun:"email,notnull" json:"email"`
	PasswordHash string      `bun:"password_hash,notnull" json:"-"`
	Role         domain.Role `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time   `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cloned := *u
	return &cloned
}
