package menus

import (
	"context"
	"fmt"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

var sortColumnNames = map[string]string{
	"id":        "id",
	"key":       "key",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *Menu) (*Menu, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(cloned).Exec(ctx); err != nil {
			return fmt.Errorf("insert menu: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, storage.MapError(err, "menu", "key", cloned.Key)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Menu, error) {
	record := new(Menu)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "menu", "", fmt.Sprintf("%d", id))
	}
	return record, nil
}

func (r *BunRepository) GetByKey(ctx context.Context, key string) (*Menu, error) {
	record := new(Menu)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "menu", "", key)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Menu], error) {
	opts = opts.Normalize(SortColumns, "id")
	direction := "ASC"
	if opts.SortOrder == domain.SortDesc {
		direction = "DESC"
	}
	records := make([]*Menu, 0, opts.Limit)
	total, err := r.db.NewSelect().
		Model(&records).
		Relation("Translations", orderTranslations).
		OrderExpr("?TableAlias.? "+direction, bun.Ident(sortColumnNames[opts.SortBy])).
		OrderExpr("?TableAlias.id "+direction).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return domain.ListResult[*Menu]{}, storage.MapError(err, "menu", "", "")
	}
	return domain.ListResult[*Menu]{Items: records, Total: total, Page: opts.Page, Limit: opts.Limit}, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Menu, replaceTranslations bool) (*Menu, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(cloned).
			Column("key", "is_enabled", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("menu", cloned.ID)
		}
		if !replaceTranslations {
			return nil
		}
		if _, err := tx.NewDelete().Model((*MenuTranslation)(nil)).Where("menu_id = ?", cloned.ID).Exec(ctx); err != nil {
			return fmt.Errorf("delete menu translations: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, storage.MapError(err, "menu", "key", cloned.Key)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*MenuTranslation)(nil)).Where("menu_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete menu translations: %w", err)
		}
		res, err := tx.NewDelete().Model((*Menu)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete menu: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("menu", id)
		}
		return nil
	})
	return storage.MapError(err, "menu", "", "")
}

func insertTranslations(ctx context.Context, db bun.IDB, menuID int64, translations []*MenuTranslation) error {
	toInsert := make([]*MenuTranslation, 0, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		tr.ID = 0
		tr.MenuID = menuID
		if tr.Items == nil {
			tr.Items = []MenuItem{}
		}
		toInsert = append(toInsert, tr)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert menu translations: %w", err)
	}
	return nil
}

func orderTranslations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.locale ASC")
}
