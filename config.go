package cms

import "github.com/lumenworks/sectioncms/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired  = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleNotListed = runtimeconfig.ErrDefaultLocaleNotListed
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheRedisAddrRequired = runtimeconfig.ErrCacheRedisAddrRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrHTTPAddrRequired       = runtimeconfig.ErrHTTPAddrRequired
	ErrSearchLimitsInvalid    = runtimeconfig.ErrSearchLimitsInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	SearchConfig  = runtimeconfig.SearchConfig
)

// DefaultConfig returns the memory-backed defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (YAML, TOML or JSON; optional) and SECTIONCMS_*
// environment variables over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
