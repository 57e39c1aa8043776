package pages

import (
	"context"
	"fmt"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

var sortColumnNames = map[string]string{
	"id":        "id",
	"key":       "key",
	"slug":      "slug",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// BunRepository persists pages with bun. Section rows are reached directly so
// that delete guards and duplication share the page transaction.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

var (
	_ Repository          = (*BunRepository)(nil)
	_ sections.PageLookup = (*BunRepository)(nil)
)

func (r *BunRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return insertPage(ctx, tx, cloned)
	})
	if err != nil {
		return nil, mapWriteError(err, cloned.Key)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Page, error) {
	record := new(Page)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "page", "", fmt.Sprintf("%d", id))
	}
	return record, nil
}

func (r *BunRepository) GetByKey(ctx context.Context, key string) (*Page, error) {
	record := new(Page)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "page", "", key)
	}
	return record, nil
}

func (r *BunRepository) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Page)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, storage.MapError(err, "page", "", "")
	}
	return exists, nil
}

func (r *BunRepository) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Page], error) {
	opts = opts.Normalize(SortColumns, "id")
	direction := "ASC"
	if opts.SortOrder == domain.SortDesc {
		direction = "DESC"
	}

	records := make([]*Page, 0, opts.Limit)
	total, err := r.db.NewSelect().
		Model(&records).
		Relation("Translations", orderTranslations).
		OrderExpr("?TableAlias.? "+direction, bun.Ident(sortColumnNames[opts.SortBy])).
		OrderExpr("?TableAlias.id "+direction).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return domain.ListResult[*Page]{}, storage.MapError(err, "page", "", "")
	}
	return domain.ListResult[*Page]{Items: records, Total: total, Page: opts.Page, Limit: opts.Limit}, nil
}

func (r *BunRepository) ListEnabled(ctx context.Context) ([]*Page, error) {
	records := make([]*Page, 0)
	err := r.db.NewSelect().
		Model(&records).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.is_enabled = ?", true).
		OrderExpr("?TableAlias.key ASC").
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "page", "", "")
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Page, replaceTranslations bool) (*Page, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(cloned).
			Column("key", "slug", "is_enabled", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("page", cloned.ID)
		}
		if !replaceTranslations {
			return nil
		}
		if _, err := tx.NewDelete().
			Model((*PageTranslation)(nil)).
			Where("page_id = ?", cloned.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page translations: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, mapWriteError(err, cloned.Key)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*Page)(nil)).Where("id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound("page", id)
		}
		count, err := tx.NewSelect().Model((*sections.Section)(nil)).Where("page_id = ?", id).Count(ctx)
		if err != nil {
			return fmt.Errorf("count sections: %w", err)
		}
		if count > 0 {
			return sectionsRemainError(id, count)
		}
		if _, err := tx.NewDelete().Model((*PageTranslation)(nil)).Where("page_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete page translations: %w", err)
		}
		if _, err := tx.NewDelete().Model((*Page)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete page: %w", err)
		}
		return nil
	})
	return storage.MapError(err, "page", "", "")
}

func (r *BunRepository) Duplicate(ctx context.Context, sourceID int64, target *Page) (*Page, error) {
	cloned := target.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*Page)(nil)).Where("id = ?", sourceID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound("page", sourceID)
		}
		if err := insertPage(ctx, tx, cloned); err != nil {
			return err
		}

		source := make([]*sections.Section, 0)
		if err := tx.NewSelect().
			Model(&source).
			Relation("Translations").
			Where("?TableAlias.page_id = ?", sourceID).
			OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC").
			Scan(ctx); err != nil {
			return fmt.Errorf("load source sections: %w", err)
		}
		for _, record := range source {
			if err := sections.InsertWithTranslations(ctx, tx, copySection(record, cloned.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteError(err, cloned.Key)
	}
	return r.GetByID(ctx, cloned.ID)
}

func insertPage(ctx context.Context, db bun.IDB, record *Page) error {
	if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	return insertTranslations(ctx, db, record.ID, record.Translations)
}

func insertTranslations(ctx context.Context, db bun.IDB, pageID int64, translations []*PageTranslation) error {
	toInsert := make([]*PageTranslation, 0, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		tr.ID = 0
		tr.PageID = pageID
		toInsert = append(toInsert, tr)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert page translations: %w", err)
	}
	return nil
}

// mapWriteError reports unique violations as a key conflict. Duplicate locales are
// rejected by request validation before reaching the store.
func mapWriteError(err error, key string) error {
	return storage.MapError(err, "page", "key", key)
}

func orderTranslations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.locale ASC")
}
