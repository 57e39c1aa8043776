package pages

import (
	"context"
	"errors"
	"time"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// CopySuffix is appended to translated titles of duplicated pages.
const CopySuffix = " (Copy)"

// Service is the admin surface for pages.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Get(ctx context.Context, id int64) (*Page, error)
	GetByKey(ctx context.Context, key string) (*Page, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Page], error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Delete(ctx context.Context, id int64) error
	Duplicate(ctx context.Context, req DuplicatePageRequest) (*Page, error)
	Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error)
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache registers the invalidator notified after each mutation.
func WithCache(invalidator cache.Invalidator) ServiceOption {
	return func(s *service) {
		if invalidator != nil {
			s.cache = invalidator
		}
	}
}

type service struct {
	repo   Repository
	cache  cache.Invalidator
	logger interfaces.Logger
	now    func() time.Time
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		cache:  cache.NoOp(),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureKeyFree(ctx, req.Key, 0); err != nil {
		return nil, err
	}
	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &Page{
		Key:          req.Key,
		Slug:         req.Slug,
		IsEnabled:    enabled,
		CreatedAt:    now,
		UpdatedAt:    now,
		Translations: buildTranslations(req.Translations, now),
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("page.create.success", "page_id", created.ID, "key", created.Key, "locales", len(created.Translations))
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Page, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByKey(ctx context.Context, key string) (*Page, error) {
	return s.repo.GetByKey(ctx, key)
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Page], error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	updated := current.Clone()
	if req.Key != nil && *req.Key != current.Key {
		if err := s.ensureKeyFree(ctx, *req.Key, current.ID); err != nil {
			return nil, err
		}
		updated.Key = *req.Key
	}
	if req.Slug != nil {
		updated.Slug = *req.Slug
	}
	if req.IsEnabled != nil {
		updated.IsEnabled = *req.IsEnabled
	}
	replace := req.Translations != nil
	if replace {
		updated.Translations = buildTranslations(req.Translations, now)
	}
	updated.UpdatedAt = now

	saved, err := s.repo.Update(ctx, updated, replace)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("page.update.success", "page_id", saved.ID, "replaced_translations", replace)
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("page.delete.success", "page_id", id)
	return nil
}

func (s *service) Duplicate(ctx context.Context, req DuplicatePageRequest) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	source, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureKeyFree(ctx, req.NewKey, 0); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	translations := cloneTranslations(source.Translations)
	for _, tr := range translations {
		tr.ID = 0
		tr.PageID = 0
		tr.CreatedAt = now
		tr.UpdatedAt = now
		if tr.Title != nil {
			title := *tr.Title + CopySuffix
			tr.Title = &title
		}
	}
	created, err := s.repo.Duplicate(ctx, source.ID, &Page{
		Key:          req.NewKey,
		Slug:         req.NewSlug,
		IsEnabled:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
		Translations: translations,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("page.duplicate.success", "page_id", created.ID, "source_id", source.ID, "key", created.Key)
	return created, nil
}

// Bulk applies req.Action to every id in order. Failures are collected per id and
// never abort the batch.
func (s *service) Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	result := &BulkResult{Errors: []BulkError{}}
	for _, id := range req.IDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		switch req.Action {
		case BulkEnable:
			err = s.setEnabled(ctx, id, true)
		case BulkDisable:
			err = s.setEnabled(ctx, id, false)
		case BulkDelete:
			err = s.repo.Delete(ctx, id)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkError{ID: id, Error: err.Error(), Err: err})
			s.log(ctx).Debug("page.bulk.item_failed", "page_id", id, "action", string(req.Action), "error", err)
			continue
		}
		result.Processed++
	}
	if result.Processed > 0 {
		s.invalidate(ctx)
	}
	s.log(ctx).Info("page.bulk.complete",
		"action", string(req.Action),
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *service) setEnabled(ctx context.Context, id int64, enabled bool) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	current.IsEnabled = enabled
	current.UpdatedAt = s.now().UTC()
	_, err = s.repo.Update(ctx, current, false)
	return err
}

func (s *service) ensureKeyFree(ctx context.Context, key string, ownerID int64) error {
	existing, err := s.repo.GetByKey(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return &domain.ConflictError{Resource: "page", Field: "key", Value: key}
	default:
		return nil
	}
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.ContentScopes...); err != nil {
		s.log(ctx).Warn("page.cache.invalidate_failed", "error", err)
	}
}

func (s *service) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, s.logger)
}

func buildTranslations(inputs []TranslationInput, now time.Time) []*PageTranslation {
	out := make([]*PageTranslation, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, &PageTranslation{
			Locale:    input.Locale,
			Title:     cloneString(input.Title),
			SEOTitle:  cloneString(input.SEOTitle),
			SEODesc:   cloneString(input.SEODesc),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}
