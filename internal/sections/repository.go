package sections

import "context"

// Repository persists sections together with their translations.
type Repository interface {
	// Create inserts the section and its translations atomically.
	Create(ctx context.Context, record *Section) (*Section, error)
	GetByID(ctx context.Context, id int64) (*Section, error)
	// ListByPage returns the page's sections ordered by sort order then id.
	ListByPage(ctx context.Context, pageID int64, enabledOnly bool) ([]*Section, error)
	// Update persists section fields. When replaceTranslations is set the stored
	// translations are deleted and record.Translations inserted in the same unit.
	Update(ctx context.Context, record *Section, replaceTranslations bool) (*Section, error)
	// UpdateSortOrders sets sort orders for sections of one page atomically.
	UpdateSortOrders(ctx context.Context, pageID int64, orders map[int64]int) error
	// Delete removes the section and its translations atomically.
	Delete(ctx context.Context, id int64) error
	CountByPage(ctx context.Context, pageID int64) (int, error)
}
