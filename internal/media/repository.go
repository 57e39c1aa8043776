package media

import (
	"context"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// SortColumns lists the fields accepted by List.
var SortColumns = []string{"id", "filename", "size", "createdAt", "updatedAt"}

// Repository persists media records with their alt text translations.
type Repository interface {
	Create(ctx context.Context, record *Media) (*Media, error)
	GetByID(ctx context.Context, id int64) (*Media, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Media], error)
	// Update stores the scalar fields. When replaceTranslations is true every stored
	// translation is swapped for record.Translations in the same write.
	Update(ctx context.Context, record *Media, replaceTranslations bool) (*Media, error)
	Delete(ctx context.Context, id int64) error
}
