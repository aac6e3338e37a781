package config

import "time"

// CatalogConfig controls whether a fetched catalog is shared between
// console replicas through Redis.  When Shared is false or no Redis client
// is configured, each replica keeps its own in-memory copy.
type CatalogConfig struct {
	Shared bool
	TTL    time.Duration // lifetime of the shared snapshot and of the in-memory copy
	Prefix string        // key namespace
}

// LoadCatalogConfig reads CATALOG_* variables.
func LoadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Shared: envBool("CATALOG_SHARED", true),
		TTL:    envDur("CATALOG_TTL", 5*time.Minute),
		Prefix: envStr("CATALOG_PREFIX", "catalog"),
	}
}
