package menus

import (
	"context"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// SortColumns are the admin list sort keys accepted by List.
var SortColumns = []string{"id", "key", "createdAt", "updatedAt"}

// Repository persists menus and their per-locale item trees.
type Repository interface {
	Create(ctx context.Context, record *Menu) (*Menu, error)
	GetByID(ctx context.Context, id int64) (*Menu, error)
	GetByKey(ctx context.Context, key string) (*Menu, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Menu], error)
	Update(ctx context.Context, record *Menu, replaceTranslations bool) (*Menu, error)
	// Delete removes the menu and every translation.
	Delete(ctx context.Context, id int64) error
}
