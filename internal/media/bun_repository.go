package media

import (
	"context"
	"fmt"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

var sortColumnNames = map[string]string{
	"id":        "id",
	"filename":  "filename",
	"size":      "size",
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

func (r *BunRepository) Create(ctx context.Context, record *Media) (*Media, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(cloned).Exec(ctx); err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, storage.MapError(err, "media", "storedFilename", cloned.StoredFilename)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*Media, error) {
	record := new(Media)
	err := r.db.NewSelect().
		Model(record).
		Relation("Translations", orderTranslations).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, storage.MapError(err, "media", "", fmt.Sprintf("%d", id))
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Media], error) {
	opts = opts.Normalize(SortColumns, "id")
	direction := "ASC"
	if opts.SortOrder == domain.SortDesc {
		direction = "DESC"
	}
	records := make([]*Media, 0, opts.Limit)
	total, err := r.db.NewSelect().
		Model(&records).
		Relation("Translations", orderTranslations).
		OrderExpr("?TableAlias.? "+direction, bun.Ident(sortColumnNames[opts.SortBy])).
		OrderExpr("?TableAlias.id "+direction).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return domain.ListResult[*Media]{}, storage.MapError(err, "media", "", "")
	}
	return domain.ListResult[*Media]{Items: records, Total: total, Page: opts.Page, Limit: opts.Limit}, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Media, replaceTranslations bool) (*Media, error) {
	cloned := record.Clone()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(cloned).
			Column("filename", "url", "mime", "size", "width", "height", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("media", cloned.ID)
		}
		if !replaceTranslations {
			return nil
		}
		if _, err := tx.NewDelete().Model((*MediaTranslation)(nil)).Where("media_id = ?", cloned.ID).Exec(ctx); err != nil {
			return fmt.Errorf("delete media translations: %w", err)
		}
		return insertTranslations(ctx, tx, cloned.ID, cloned.Translations)
	})
	if err != nil {
		return nil, storage.MapError(err, "media", "", "")
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*MediaTranslation)(nil)).Where("media_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete media translations: %w", err)
		}
		res, err := tx.NewDelete().Model((*Media)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return domain.NotFound("media", id)
		}
		return nil
	})
	return storage.MapError(err, "media", "", "")
}

func insertTranslations(ctx context.Context, db bun.IDB, mediaID int64, translations []*MediaTranslation) error {
	toInsert := make([]*MediaTranslation, 0, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		tr.ID = 0
		tr.MediaID = mediaID
		toInsert = append(toInsert, tr)
	}
	if len(toInsert) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
		return fmt.Errorf("insert media translations: %w", err)
	}
	return nil
}

func orderTranslations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.locale ASC")
}
