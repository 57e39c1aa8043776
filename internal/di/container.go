package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/content"
	cmshttp "github.com/lumenworks/sectioncms/internal/http"
	"github.com/lumenworks/sectioncms/internal/importer"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/logging/gologger"
	"github.com/lumenworks/sectioncms/internal/media"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/runtimeconfig"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/lumenworks/sectioncms/internal/users"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// ErrNoDatabase is returned by operations that need a SQL store when the memory
// driver is configured.
var ErrNoDatabase = errors.New("di: no sql database configured")

// Container wires the store handle, cache and services described by a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	clock          func() time.Time

	bunDB      *bun.DB
	ownsDB     bool
	cacheStore cache.Store
	redis      *cache.RedisStore
	responses  *cache.ResponseCache

	registry    *sections.Registry
	pageRepo    pages.Repository
	sectionRepo sections.Repository
	menuRepo    menus.Repository
	mediaRepo   media.Repository
	userRepo    users.Repository

	pageSvc    pages.Service
	sectionSvc sections.Service
	menuSvc    menus.Service
	mediaSvc   media.Service
	userSvc    users.Service
	resolver   content.Resolver
	importer   *importer.Importer
	api        *cmshttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database instead of opening Config.Storage. The
// caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCacheStore supplies the response cache backend instead of dialing redis.
func WithCacheStore(store cache.Store) Option {
	return func(c *Container) {
		c.cacheStore = store
	}
}

// WithRegistry overrides the section type registry.
func WithRegistry(registry *sections.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.registry = registry
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer validates cfg and builds every service. SQL drivers are opened
// (and migrated when Storage.AutoMigrate is set); the memory driver keeps
// everything in process.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config:   cfg,
		registry: sections.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.configureCache(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureRepositories()
	c.configureServices()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if c.Config.LoggingProvider() != "gologger" {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	logger := c.moduleLogger("cms.storage")
	if c.bunDB == nil && c.Config.StorageDriver() != storage.DriverMemory {
		db, err := storage.Open(ctx, storage.Config{
			Driver: c.Config.StorageDriver(),
			DSN:    c.Config.Storage.DSN,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		logger.Info("storage.configured", "driver", string(storage.DriverMemory))
		return nil
	}
	if c.Config.Storage.AutoMigrate {
		if err := storage.Migrate(c.bunDB); err != nil {
			_ = c.Close()
			return err
		}
	}
	logger.Info("storage.configured", "driver", string(storage.DriverOf(c.bunDB)), "auto_migrate", c.Config.Storage.AutoMigrate)
	return nil
}

func (c *Container) configureCache(ctx context.Context) error {
	if c.cacheStore == nil && c.Config.Cache.Enabled {
		store, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
		if err != nil {
			return err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return fmt.Errorf("configure cache: %w", err)
		}
		c.redis = store
		c.cacheStore = store
	}
	if c.cacheStore == nil {
		return nil
	}
	c.responses = cache.NewResponseCache(c.cacheStore, c.Config.Cache.Prefix, c.Config.Cache.TTL)
	c.moduleLogger("cms.cache").Info("cache.configured", "prefix", c.Config.Cache.Prefix, "ttl", c.Config.Cache.TTL.String())
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.pageRepo = pages.NewBunRepository(c.bunDB)
		c.sectionRepo = sections.NewBunRepository(c.bunDB)
		c.menuRepo = menus.NewBunRepository(c.bunDB)
		c.mediaRepo = media.NewBunRepository(c.bunDB)
		c.userRepo = users.NewBunRepository(c.bunDB)
		return
	}
	sectionRepo := sections.NewMemoryRepository()
	c.sectionRepo = sectionRepo
	c.pageRepo = pages.NewMemoryRepository(sectionRepo)
	c.menuRepo = menus.NewMemoryRepository()
	c.mediaRepo = media.NewMemoryRepository()
	c.userRepo = users.NewMemoryRepository()
}

func (c *Container) configureServices() {
	pageOpts := []pages.ServiceOption{pages.WithLogger(logging.PagesLogger(c.loggerProvider))}
	sectionOpts := []sections.ServiceOption{
		sections.WithRegistry(c.registry),
		sections.WithLogger(logging.SectionsLogger(c.loggerProvider)),
	}
	menuOpts := []menus.ServiceOption{
		menus.WithLogger(logging.MenusLogger(c.loggerProvider)),
		menus.WithResponseCache(c.responses),
	}
	mediaOpts := []media.ServiceOption{media.WithLogger(c.moduleLogger("cms.media"))}
	userOpts := []users.ServiceOption{users.WithLogger(c.moduleLogger("cms.users"))}
	resolverOpts := []content.ResolverOption{
		content.WithRegistry(c.registry),
		content.WithResponseCache(c.responses),
		content.WithSearchLimits(c.Config.Search.DefaultLimit, c.Config.Search.MaxLimit),
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
	}
	if c.responses != nil {
		pageOpts = append(pageOpts, pages.WithCache(c.responses))
		sectionOpts = append(sectionOpts, sections.WithCache(c.responses))
	}
	if c.clock != nil {
		pageOpts = append(pageOpts, pages.WithClock(c.clock))
		sectionOpts = append(sectionOpts, sections.WithClock(c.clock))
		menuOpts = append(menuOpts, menus.WithClock(c.clock))
		mediaOpts = append(mediaOpts, media.WithClock(c.clock))
		userOpts = append(userOpts, users.WithClock(c.clock))
	}

	c.pageSvc = pages.NewService(c.pageRepo, pageOpts...)
	c.sectionSvc = sections.NewService(c.sectionRepo, c.pageRepo, sectionOpts...)
	c.menuSvc = menus.NewService(c.menuRepo, menuOpts...)
	c.mediaSvc = media.NewService(c.mediaRepo, mediaOpts...)
	c.userSvc = users.NewService(c.userRepo, userOpts...)
	c.resolver = content.NewResolver(c.pageRepo, c.sectionRepo, resolverOpts...)
	c.importer = importer.New(c.pageSvc, c.sectionSvc, importer.WithLogger(logging.ImporterLogger(c.loggerProvider)))
	c.api = cmshttp.NewAPI(
		cmshttp.WithContentResolver(c.resolver),
		cmshttp.WithPageService(c.pageSvc),
		cmshttp.WithSectionService(c.sectionSvc),
		cmshttp.WithMenuService(c.menuSvc),
		cmshttp.WithMediaService(c.mediaSvc),
		cmshttp.WithUserService(c.userSvc),
		cmshttp.WithDefaultLocale(c.Config.DefaultLocale),
		cmshttp.WithLogger(c.moduleLogger("cms.http")),
		cmshttp.WithLoggerProvider(c.loggerProvider),
	)
}

// Migrate applies pending migrations to the configured SQL database.
func (c *Container) Migrate() error {
	if c.bunDB == nil {
		return ErrNoDatabase
	}
	return storage.Migrate(c.bunDB)
}

// Close releases the database and redis connections the container opened.
func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
		c.redis = nil
	}
	if c.ownsDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
		c.bunDB = nil
	}
	return errors.Join(errs...)
}

func (c *Container) moduleLogger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Logger returns a module logger from the configured provider.
func (c *Container) Logger(module string) interfaces.Logger {
	return c.moduleLogger(module)
}

func (c *Container) DB() *bun.DB { return c.bunDB }

func (c *Container) ResponseCache() *cache.ResponseCache { return c.responses }

func (c *Container) Registry() *sections.Registry { return c.registry }

func (c *Container) PageService() pages.Service { return c.pageSvc }

func (c *Container) SectionService() sections.Service { return c.sectionSvc }

func (c *Container) MenuService() menus.Service { return c.menuSvc }

func (c *Container) MediaService() media.Service { return c.mediaSvc }

func (c *Container) UserService() users.Service { return c.userSvc }

func (c *Container) ContentResolver() content.Resolver { return c.resolver }

func (c *Container) Importer() *importer.Importer { return c.importer }

func (c *Container) API() *cmshttp.API { return c.api }
