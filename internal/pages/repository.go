package pages

import (
	"context"
	"fmt"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// SortColumns are the admin list sort keys accepted by List.
var SortColumns = []string{"id", "key", "slug", "createdAt", "updatedAt"}

// Repository persists pages and their translations.
type Repository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id int64) (*Page, error)
	GetByKey(ctx context.Context, key string) (*Page, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Page], error)
	// ListEnabled returns every enabled page ordered by key.
	ListEnabled(ctx context.Context) ([]*Page, error)
	// Update writes the scalar fields of record. When replaceTranslations is set the
	// stored translations are swapped for record.Translations atomically.
	Update(ctx context.Context, record *Page, replaceTranslations bool) (*Page, error)
	// Delete removes a page and its translations. Pages that still own sections
	// are rejected with an InvalidStateError.
	Delete(ctx context.Context, id int64) error
	// Duplicate inserts target and copies every section of sourceID, with their
	// translations, onto it in one unit of work.
	Duplicate(ctx context.Context, sourceID int64, target *Page) (*Page, error)
}

func sectionsRemainError(id int64, count int) error {
	return &domain.InvalidStateError{
		Resource: "page",
		ID:       id,
		Reason:   fmt.Sprintf("page still owns %d section(s)", count),
	}
}
