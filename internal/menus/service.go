package menus

import (
	"context"
	"errors"
	"time"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// Service is the admin surface for menus plus public navigation.
type Service interface {
	Navigation
	Create(ctx context.Context, req CreateMenuRequest) (*Menu, error)
	Get(ctx context.Context, id int64) (*Menu, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Menu], error)
	Update(ctx context.Context, req UpdateMenuRequest) (*Menu, error)
	Delete(ctx context.Context, id int64) error
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

// WithResponseCache caches resolved navigation and drops it on admin writes.
func WithResponseCache(c *cache.ResponseCache) ServiceOption {
	return func(s *service) {
		s.cache = c
	}
}

type service struct {
	repo   Repository
	cache  *cache.ResponseCache
	logger interfaces.Logger
	now    func() time.Time
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateMenuRequest) (*Menu, error) {
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
	created, err := s.repo.Create(ctx, &Menu{
		Key:          req.Key,
		IsEnabled:    enabled,
		CreatedAt:    now,
		UpdatedAt:    now,
		Translations: buildTranslations(req.Translations, now),
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("menu.create.success", "menu_id", created.ID, "key", created.Key)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Menu, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Menu], error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, req UpdateMenuRequest) (*Menu, error) {
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
	s.log(ctx).Info("menu.update.success", "menu_id", saved.ID, "replaced_translations", replace)
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("menu.delete.success", "menu_id", id)
	return nil
}

func (s *service) ensureKeyFree(ctx context.Context, key string, ownerID int64) error {
	existing, err := s.repo.GetByKey(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return &domain.ConflictError{Resource: "menu", Field: "key", Value: key}
	default:
		return nil
	}
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cache.ScopeNavigation); err != nil {
		s.log(ctx).Warn("menu.cache.invalidate_failed", "error", err)
	}
}

func (s *service) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, s.logger)
}

func buildTranslations(inputs []TranslationInput, now time.Time) []*MenuTranslation {
	out := make([]*MenuTranslation, 0, len(inputs))
	for _, input := range inputs {
		items := CloneItems(input.Items)
		if items == nil {
			items = []MenuItem{}
		}
		out = append(out, &MenuTranslation{
			Locale:    input.Locale,
			Items:     items,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}
