package menus

import (
	"context"
	"errors"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
)

// Navigation resolves the public item tree of a menu.
type Navigation interface {
	// Resolve returns the stored items of menuKey for locale. Disabled or absent
	// menus and missing translations resolve to an empty list.
	Resolve(ctx context.Context, menuKey, locale string) ([]MenuItem, error)
}

func (s *service) Resolve(ctx context.Context, menuKey, locale string) ([]MenuItem, error) {
	var cached []MenuItem
	if ok, err := s.cache.Load(ctx, cache.ScopeNavigation, &cached, menuKey, locale); err != nil {
		s.log(ctx).Warn("menu.cache.load_failed", "error", err)
	} else if ok {
		return cached, nil
	}

	items := []MenuItem{}
	menu, err := s.repo.GetByKey(ctx, menuKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	case menu.IsEnabled:
		if tr := menu.Translation(locale); tr != nil && tr.Items != nil {
			items = tr.Items
		}
	}

	if err := s.cache.Save(ctx, cache.ScopeNavigation, items, menuKey, locale); err != nil {
		s.log(ctx).Warn("menu.cache.save_failed", "error", err)
	}
	return items, nil
}
