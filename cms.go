package cms

import (
	"context"
	"net/http"

	"github.com/lumenworks/sectioncms/internal/content"
	"github.com/lumenworks/sectioncms/internal/di"
	"github.com/lumenworks/sectioncms/internal/importer"
	"github.com/lumenworks/sectioncms/internal/media"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/users"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// ContentResolver exports the public read contract: page views, search and sitemap.
type ContentResolver = content.Resolver

// PageService exports the pages service contract.
type PageService = pages.Service

// SectionService exports the sections service contract.
type SectionService = sections.Service

// MenuService exports the menus service contract, navigation included.
type MenuService = menus.Service

// MediaService exports the media metadata service contract.
type MediaService = media.Service

// UserService exports the users service contract.
type UserService = users.Service

// Module represents the top level CMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a CMS module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Content() ContentResolver {
	return m.container.ContentResolver()
}

func (m *Module) Pages() PageService {
	return m.container.PageService()
}

func (m *Module) Sections() SectionService {
	return m.container.SectionService()
}

// Menus returns the menu service, which also resolves public navigation.
func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

func (m *Module) Media() MediaService {
	return m.container.MediaService()
}

func (m *Module) Users() UserService {
	return m.container.UserService()
}

// Importer returns the markdown page importer.
func (m *Module) Importer() *importer.Importer {
	return m.container.Importer()
}

// Handler returns the public and admin HTTP routes.
func (m *Module) Handler() http.Handler {
	return m.container.API().Routes()
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	return m.container.Logger(module)
}

// Migrate applies pending schema migrations. It fails with di.ErrNoDatabase on
// the memory driver.
func (m *Module) Migrate() error {
	return m.container.Migrate()
}

// Close releases store and cache connections.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
