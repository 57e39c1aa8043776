package sections

import (
	"context"
	"fmt"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

// BunRepository persists sections with bun.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a bun-backed section repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

var _ Repository = (*BunRepository)(nil)

// InsertWithTranslations inserts record followed by its translations using db, which
// is usually a transaction owned by the caller.
func InsertWithTranslations(ctx context.Context, db bun.IDB, record *Section) error {
	if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return insertTranslations(ctx, db, record.ID, record.Translations)
}

func insertTranslations(ctx context.Context, db bun.IDB, sectionID int64, translations []*SectionTranslation) error {
	toInsert := make([]*SectionTranslation, 0, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		tr.SectionID = sectionID
		toInsert = append(toInsert, tr)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert section translations: %w", err)
	}
	return nil
}

func (r *BunRepository) Create(ctx context.Context, record *Section) (*Section, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return InsertWithTranslations(ctx, tx, cloned)
	})
	if err != nil {
		return nil, storage.MapError(err, "section translation", "locale", "")
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Section, error) {
	record := new(Section)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "section", "id", fmt.Sprintf("%d", id))
	}
	return record, nil
}

func (r *BunRepository) ListByPage(ctx context.Context, pageID int64, enabledOnly bool) ([]*Section, error) {
	var records []*Section
	q := r.db.NewSelect().
		Model(&records).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.page_id = ?", pageID)
	if enabledOnly {
		q = q.Where("?TableAlias.is_enabled = ?", true)
	}
	if err := q.OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, storage.MapError(err, "section", "page_id", fmt.Sprintf("%d", pageID))
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Section, replaceTranslations bool) (*Section, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(cloned).
			Column("type", "is_enabled", "sort_order", "config", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update section: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("section", cloned.ID)
		}
		if !replaceTranslations {
			return nil
		}
		if _, err := tx.NewDelete().
			Model((*SectionTranslation)(nil)).
			Where("?TableAlias.section_id = ?", cloned.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete section translations: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, storage.MapError(err, "section translation", "locale", "")
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) UpdateSortOrders(ctx context.Context, pageID int64, orders map[int64]int) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for id, order := range orders {
			res, err := tx.NewUpdate().
				Model((*Section)(nil)).
				Set("sort_order = ?", order).
				Where("id = ?", id).
				Where("page_id = ?", pageID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("update section order: %w", err)
			}
			if affected, err := res.RowsAffected(); err == nil && affected == 0 {
				return domain.NotFound("section", id)
			}
		}
		return nil
	})
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return DeleteWithTranslations(ctx, tx, id)
	})
}

// DeleteWithTranslations removes a section's translations and then the section.
func DeleteWithTranslations(ctx context.Context, db bun.IDB, id int64) error {
	if _, err := db.NewDelete().
		Model((*SectionTranslation)(nil)).
		Where("section_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete section translations: %w", err)
	}
	res, err := db.NewDelete().
		Model((*Section)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.NotFound("section", id)
	}
	return nil
}

func (r *BunRepository) CountByPage(ctx context.Context, pageID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Section)(nil)).
		Where("page_id = ?", pageID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count sections: %w", err)
	}
	return count, nil
}

func orderTranslations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.locale ASC")
}
