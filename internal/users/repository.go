package users

import (
	"context"
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// SortColumns lists the fields accepted by List.
var SortColumns = []string{"id", "email", "role", "createdAt", "updatedAt"}

// Repository persists users. Emails are stored normalised, so lookups are exact.
type Repository interface {
	Create(ctx context.Context, record *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*User], error)
	UpdateRole(ctx context.Context, id int64, role domain.Role, updatedAt time.Time) (*User, error)
	Delete(ctx context.Context, id int64) error
}
