package users

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

var sortColumnNames = map[string]string{
	"id":        "id",
	"email":     "email",
	"role":      "role",
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

func (r *BunRepository) Create(ctx context.Context, record *User) (*User, error) {
	cloned := record.Clone()
	if _, err := r.db.NewInsert().Model(cloned).Exec(ctx); err != nil {
		return nil, storage.MapError(err, "user", "email", cloned.Email)
	}
	return r.GetByID(ctx, cloned.ID)
}

func (r *BunRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	record := new(User)
	if err := r.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, storage.MapError(err, "user", "", fmt.Sprintf("%d", id))
	}
	return record, nil
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := new(User)
	if err := r.db.NewSelect().Model(record).Where("?TableAlias.email = ?", email).Limit(1).Scan(ctx); err != nil {
		return nil, storage.MapError(err, "user", "", email)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*User], error) {
	opts = opts.Normalize(SortColumns, "id")
	direction := "ASC"
	if opts.SortOrder == domain.SortDesc {
		direction = "DESC"
	}
	records := make([]*User, 0, opts.Limit)
	total, err := r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.? "+direction, bun.Ident(sortColumnNames[opts.SortBy])).
		OrderExpr("?TableAlias.id "+direction).
		Limit(opts.Limit).
		Offset(opts.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return domain.ListResult[*User]{}, storage.MapError(err, "user", "", "")
	}
	return domain.ListResult[*User]{Items: records, Total: total, Page: opts.Page, Limit: opts.Limit}, nil
}

func (r *BunRepository) UpdateRole(ctx context.Context, id int64, role domain.Role, updatedAt time.Time) (*User, error) {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("role = ?", role).
		Set("updated_at = ?", updatedAt).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, storage.MapError(err, "user", "", "")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, domain.NotFound("user", id)
	}
	return r.GetByID(ctx, id)
}

func (r *BunRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*User)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return storage.MapError(err, "user", "", "")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}
