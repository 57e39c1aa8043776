package sections

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/validation"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// PageLookup reports whether a page exists. Page repositories implement it.
type PageLookup interface {
	Exists(ctx context.Context, pageID int64) (bool, error)
}

// Service is the admin surface for sections.
type Service interface {
	Create(ctx context.Context, req CreateSectionRequest) (*Section, error)
	Get(ctx context.Context, id int64) (*Section, error)
	ListByPage(ctx context.Context, pageID int64) ([]*Section, error)
	Update(ctx context.Context, req UpdateSectionRequest) (*Section, error)
	Reorder(ctx context.Context, req ReorderSectionsRequest) ([]*Section, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithRegistry overrides the section type registry. Defaults to DefaultRegistry.
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the service logger.
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
	repo     Repository
	pages    PageLookup
	registry *Registry
	cache    cache.Invalidator
	logger   interfaces.Logger
	now      func() time.Time
}

// NewService constructs the section admin service.
func NewService(repo Repository, pages PageLookup, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		pages:    pages,
		registry: DefaultRegistry(),
		cache:    cache.NoOp(),
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateSectionRequest) (*Section, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.registry.Has(req.Type) {
		return nil, unknownTypeError(req.Type)
	}
	now := s.now().UTC()
	translations, err := s.buildTranslations(req.Type, req.Translations, now)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePage(ctx, req.PageID); err != nil {
		return nil, err
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else if sortOrder, err = s.nextSortOrder(ctx, req.PageID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Section{
		PageID:       req.PageID,
		Type:         req.Type,
		IsEnabled:    enabled,
		SortOrder:    sortOrder,
		Config:       cloneMap(req.Config),
		CreatedAt:    now,
		UpdatedAt:    now,
		Translations: translations,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("section.create.success",
		"section_id", created.ID,
		"page_id", created.PageID,
		"type", string(created.Type),
		"locales", len(created.Translations),
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Section, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByPage(ctx context.Context, pageID int64) ([]*Section, error) {
	if err := s.ensurePage(ctx, pageID); err != nil {
		return nil, err
	}
	return s.repo.ListByPage(ctx, pageID, false)
}

func (s *service) Update(ctx context.Context, req UpdateSectionRequest) (*Section, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updated := current.Clone()
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if !s.registry.Has(updated.Type) {
		return nil, unknownTypeError(updated.Type)
	}
	if req.IsEnabled != nil {
		updated.IsEnabled = *req.IsEnabled
	}
	if req.SortOrder != nil {
		updated.SortOrder = *req.SortOrder
	}
	switch {
	case req.ClearConfig:
		updated.Config = nil
	case req.Config != nil:
		updated.Config = cloneMap(req.Config)
	}

	replace := req.Translations != nil
	switch {
	case replace:
		translations, err := s.buildTranslations(updated.Type, req.Translations, now)
		if err != nil {
			return nil, err
		}
		updated.Translations = translations
	case updated.Type != current.Type:
		if err := s.revalidate(updated.Type, current.Translations); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = now

	saved, err := s.repo.Update(ctx, updated, replace)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("section.update.success",
		"section_id", saved.ID,
		"page_id", saved.PageID,
		"replaced_translations", replace,
	)
	return saved, nil
}

func (s *service) Reorder(ctx context.Context, req ReorderSectionsRequest) ([]*Section, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensurePage(ctx, req.PageID); err != nil {
		return nil, err
	}
	orders := make(map[int64]int, len(req.Items))
	for _, item := range req.Items {
		orders[item.ID] = item.SortOrder
	}
	if err := s.repo.UpdateSortOrders(ctx, req.PageID, orders); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("section.reorder.success", "page_id", req.PageID, "count", len(orders))
	return s.repo.ListByPage(ctx, req.PageID, false)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("section.delete.success", "section_id", id)
	return nil
}

// buildTranslations validates every translation's content against the schema for
// sectionType and reports all failures together.
func (s *service) buildTranslations(sectionType Type, inputs []TranslationInput, now time.Time) ([]*SectionTranslation, error) {
	out := make([]*SectionTranslation, 0, len(inputs))
	failures := make([]error, 0)
	for i, input := range inputs {
		content, err := s.registry.Validate(sectionType, input.Content)
		if err != nil {
			failures = append(failures, validation.Prefix(fmt.Sprintf("translations/%d/content", i), err))
			continue
		}
		out = append(out, &SectionTranslation{
			Locale:    input.Locale,
			Content:   cloneMap(content),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := validation.Merge(failures...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) revalidate(sectionType Type, translations []*SectionTranslation) error {
	failures := make([]error, 0)
	for i, tr := range translations {
		if _, err := s.registry.Validate(sectionType, tr.Content); err != nil {
			failures = append(failures, validation.Prefix(fmt.Sprintf("translations/%d/content", i), err))
		}
	}
	return validation.Merge(failures...)
}

func (s *service) ensurePage(ctx context.Context, pageID int64) error {
	if s.pages == nil {
		return nil
	}
	exists, err := s.pages.Exists(ctx, pageID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound("page", pageID)
	}
	return nil
}

func (s *service) nextSortOrder(ctx context.Context, pageID int64) (int, error) {
	existing, err := s.repo.ListByPage(ctx, pageID, false)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, record := range existing {
		if record.SortOrder >= next {
			next = record.SortOrder + 1
		}
	}
	return next, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.ContentScopes...); err != nil {
		s.log(ctx).Warn("section.cache.invalidate_failed", "error", err)
	}
}

func (s *service) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, s.logger)
}
