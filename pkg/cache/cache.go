package cache

import (
	"context"
	"time"
)

// Cache defines the interface for the distance memo table backends.
// Entries are write-once: a key is never re-associated with a different
// value, which lets backends skip invalidation logic entirely.
type Cache interface {
	// Get retrieves a cached value by key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given key.
	Set(ctx context.Context, key string, value []byte) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error

	// Stats returns cache statistics.
	Stats() CacheStats

	// Close releases any resources held by the cache.
	Close() error
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Sets       int64     `json:"sets"`
	Entries    int64     `json:"entries"`
	LastAccess time.Time `json:"last_access"`
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	// Type of cache: "memory" or "sqlite"
	Type string `json:"type" yaml:"type"`

	// SQLite specific configuration
	SQLiteConfig SQLiteConfig `json:"sqlite_config,omitempty" yaml:"sqlite_config,omitempty"`

	// Memory cache specific configuration
	MemoryConfig MemoryConfig `json:"memory_config,omitempty" yaml:"memory_config,omitempty"`
}

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	// Path to the SQLite database file
	Path string `json:"path" yaml:"path"`

	// Enable WAL mode for better concurrent performance
	EnableWAL bool `json:"enable_wal" yaml:"enable_wal"`

	// Maximum number of connections
	MaxConnections int `json:"max_connections" yaml:"max_connections"`
}

// MemoryConfig holds memory cache specific configuration.
type MemoryConfig struct {
	// Number of shards for concurrent access
	ShardCount int `json:"shard_count" yaml:"shard_count"`
}

// NewCache creates a new cache instance based on the configuration.
func NewCache(config CacheConfig) (Cache, error) {
	switch config.Type {
	case "memory":
		return NewMemoryCache(config)
	case "sqlite":
		return NewSQLiteCache(config)
	default:
		// Default to memory cache
		return NewMemoryCache(config)
	}
}
