package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lumenworks/sectioncms/internal/commands"
	pagescmd "github.com/lumenworks/sectioncms/internal/commands/pages"
	"github.com/lumenworks/sectioncms/internal/content"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/media"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/users"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

const (
	// RoleHeader carries the caller role on admin requests.
	RoleHeader = "X-CMS-Role"
	// RequestIDHeader is echoed back, generated when the caller sends none.
	RequestIDHeader = "X-Request-ID"
)

// API serves every HTTP route. Services left unset answer 503.
type API struct {
	content       content.Resolver
	navigation    menus.Navigation
	pages         pages.Service
	sections      sections.Service
	menus         menus.Service
	media         media.Service
	users         users.Service
	logger        interfaces.Logger
	provider      interfaces.LoggerProvider
	defaultLocale string

	bulkPages       *pagescmd.BulkPagesHandler
	duplicatePage   *pagescmd.DuplicatePageHandler
	deleteSection   *pagescmd.DeleteSectionHandler
	reorderSections *pagescmd.ReorderSectionsHandler
}

type Option func(*API)

func WithContentResolver(resolver content.Resolver) Option {
	return func(api *API) {
		api.content = resolver
	}
}

func WithPageService(service pages.Service) Option {
	return func(api *API) {
		api.pages = service
	}
}

func WithSectionService(service sections.Service) Option {
	return func(api *API) {
		api.sections = service
	}
}

// WithMenuService registers the menu admin service. It also serves navigation.
func WithMenuService(service menus.Service) Option {
	return func(api *API) {
		api.menus = service
		if service != nil {
			api.navigation = service
		}
	}
}

func WithMediaService(service media.Service) Option {
	return func(api *API) {
		api.media = service
	}
}

func WithUserService(service users.Service) Option {
	return func(api *API) {
		api.users = service
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithLoggerProvider names the command handler loggers per resource
// (cms.commands.pages, cms.commands.sections).
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(api *API) {
		api.provider = provider
	}
}

// WithDefaultLocale sets the locale used when a public request names none.
func WithDefaultLocale(locale string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			api.defaultLocale = trimmed
		}
	}
}

func NewAPI(opts ...Option) *API {
	api := &API{
		logger:        logging.NoOp(),
		defaultLocale: "en",
	}
	for _, opt := range opts {
		opt(api)
	}
	if api.pages != nil {
		logger := api.commandLogger("pages")
		api.bulkPages = pagescmd.NewBulkPagesHandler(api.pages, logger)
		api.duplicatePage = pagescmd.NewDuplicatePageHandler(api.pages, logger)
	}
	if api.sections != nil {
		logger := api.commandLogger("sections")
		api.deleteSection = pagescmd.NewDeleteSectionHandler(api.sections, logger)
		api.reorderSections = pagescmd.NewReorderSectionsHandler(api.sections, logger)
	}
	return api
}

func (api *API) commandLogger(resource string) interfaces.Logger {
	if api.provider == nil {
		return api.logger
	}
	return commands.CommandLogger(api.provider, resource)
}

// Routes returns the router serving /api and /admin/api.
func (api *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(api.requestID)

	r.Route("/api", func(r chi.Router) {
		r.Get("/content/{pageKey}", api.handlePageContent)
		r.Get("/navigation/{menuKey}", api.handleNavigation)
		r.Get("/search", api.handleSearch)
		r.Get("/sitemap", api.handleSitemap)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(api.requireRole)
		r.Route("/pages", api.pageRoutes)
		r.Route("/sections", api.sectionRoutes)
		r.Route("/menus", api.menuRoutes)
		r.Route("/media", api.mediaRoutes)
		r.Route("/users", api.userRoutes)
	})
	return r
}

func (api *API) unavailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}
