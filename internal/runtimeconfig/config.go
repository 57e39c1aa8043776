package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/lumenworks/sectioncms/internal/storage"
)

var (
	ErrDefaultLocaleRequired  = errors.New("cms config: default locale is required")
	ErrDefaultLocaleNotListed = errors.New("cms config: default locale must be one of the configured locales")
	ErrStorageDriverUnknown   = errors.New("cms config: storage driver is invalid")
	ErrStorageDSNRequired     = errors.New("cms config: storage dsn is required for sql drivers")
	ErrCacheRedisAddrRequired = errors.New("cms config: redis address is required when the cache is enabled")
	ErrCacheTTLInvalid        = errors.New("cms config: cache ttl must be positive")
	ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("cms config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("cms config: logging format is invalid")
	ErrHTTPAddrRequired       = errors.New("cms config: http address is required")
	ErrSearchLimitsInvalid    = errors.New("cms config: search limits must satisfy 0 < default <= max")
)

// Config aggregates storage, cache, logging and transport settings for the CMS.
// Values come from DefaultConfig, then an optional YAML/TOML/JSON file, then
// SECTIONCMS_* environment variables.
type Config struct {
	DefaultLocale string        `yaml:"default_locale" json:"defaultLocale" env:"SECTIONCMS_DEFAULT_LOCALE" env-description:"locale served when a request names none"`
	Locales       []string      `yaml:"locales" json:"locales" env:"SECTIONCMS_LOCALES" env-description:"comma separated list of supported locales"`
	Storage       StorageConfig `yaml:"storage" json:"storage"`
	Cache         CacheConfig   `yaml:"cache" json:"cache"`
	Logging       LoggingConfig `yaml:"logging" json:"logging"`
	HTTP          HTTPConfig    `yaml:"http" json:"http"`
	Search        SearchConfig  `yaml:"search" json:"search"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver      string `yaml:"driver" json:"driver" env:"SECTIONCMS_STORAGE_DRIVER" env-description:"memory, sqlite or postgres"`
	DSN         string `yaml:"dsn" json:"dsn" env:"SECTIONCMS_STORAGE_DSN" env-description:"database connection string"`
	AutoMigrate bool   `yaml:"auto_migrate" json:"autoMigrate" env:"SECTIONCMS_STORAGE_AUTO_MIGRATE" env-description:"apply migrations on startup"`
}

// CacheConfig captures the redis response cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" env:"SECTIONCMS_CACHE_ENABLED"`
	TTL           time.Duration `yaml:"ttl" json:"ttl" env:"SECTIONCMS_CACHE_TTL"`
	RedisAddr     string        `yaml:"redis_addr" json:"redisAddr" env:"SECTIONCMS_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" json:"redisPassword" env:"SECTIONCMS_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" json:"redisDb" env:"SECTIONCMS_REDIS_DB"`
	Prefix        string        `yaml:"prefix" json:"prefix" env:"SECTIONCMS_CACHE_PREFIX"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" json:"provider" env:"SECTIONCMS_LOG_PROVIDER" env-description:"gologger or noop"`
	Level     string   `yaml:"level" json:"level" env:"SECTIONCMS_LOG_LEVEL"`
	Format    string   `yaml:"format" json:"format" env:"SECTIONCMS_LOG_FORMAT" env-description:"json, console or pretty"`
	AddSource bool     `yaml:"add_source" json:"addSource" env:"SECTIONCMS_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus" json:"focus" env:"SECTIONCMS_LOG_FOCUS"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" json:"addr" env:"SECTIONCMS_HTTP_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdownTimeout" env:"SECTIONCMS_HTTP_SHUTDOWN_TIMEOUT"`
}

type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit" json:"defaultLimit" env:"SECTIONCMS_SEARCH_DEFAULT_LIMIT"`
	MaxLimit     int `yaml:"max_limit" json:"maxLimit" env:"SECTIONCMS_SEARCH_MAX_LIMIT"`
}

// DefaultConfig returns a memory-backed configuration suitable for local runs.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en"},
		Storage: StorageConfig{
			Driver: string(storage.DriverMemory),
		},
		Cache: CacheConfig{
			TTL:    time.Minute,
			Prefix: "sectioncms",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

// Load starts from DefaultConfig, overlays the file at path when one is given and
// then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("cms config: read: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Usage describes every environment variable Load reads.
func Usage() string {
	cfg := DefaultConfig()
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	locale := strings.TrimSpace(cfg.DefaultLocale)
	if locale == "" {
		return ErrDefaultLocaleRequired
	}
	if len(cfg.Locales) > 0 && !slices.Contains(cfg.Locales, locale) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleNotListed, locale)
	}

	driver, err := storage.ParseDriver(cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if driver != storage.DriverMemory && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
	}

	if cfg.Cache.Enabled {
		if strings.TrimSpace(cfg.Cache.RedisAddr) == "" {
			return ErrCacheRedisAddrRequired
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if provider == "gologger" {
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.Search.DefaultLimit <= 0 || cfg.Search.MaxLimit < cfg.Search.DefaultLimit {
		return ErrSearchLimitsInvalid
	}
	return nil
}

// StorageDriver returns the parsed storage driver. Call after Validate.
func (cfg Config) StorageDriver() storage.Driver {
	driver, _ := storage.ParseDriver(cfg.Storage.Driver)
	return driver
}

// LoggingProvider returns the normalised logging provider name.
func (cfg Config) LoggingProvider() string {
	return normalizeProvider(cfg.Logging.Provider)
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "noop"
	}
	return provider
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
