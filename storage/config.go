package storage

import (
	"fmt"
	"time"
)

// Config holds store initialization parameters.
type Config struct {
	Driver    string `json:"driver,omitempty"`     // "memory", "file", or "sqlite". Empty means memory.
	Path      string `json:"path,omitempty"`       // FileStore root directory or SQLiteStore database path.
	CacheTTL  int    `json:"cache_ttl,omitempty"`  // Seconds to serve reads from cache; 0 disables caching.
	CacheSize int    `json:"cache_size,omitempty"` // Maximum cached entries; 0 leaves the cache unbounded.
}

// DefaultConfig returns the default storage configuration (in-process memory).
func DefaultConfig() Config {
	return Config{Driver: "memory"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Driver != "" {
		c.Driver = source.Driver
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.CacheTTL > 0 {
		c.CacheTTL = source.CacheTTL
	}
	if source.CacheSize > 0 {
		c.CacheSize = source.CacheSize
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	var store Store

	switch cfg.Driver {
	case "", "memory":
		store = NewMemoryStore()
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file driver requires a path")
		}
		store = NewFileStore(cfg.Path)
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite driver requires a path")
		}
		sqlite, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		store = sqlite
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}

	if cfg.CacheTTL > 0 {
		store = NewCachedStore(store, time.Duration(cfg.CacheTTL)*time.Second,
			WithMaxEntries(cfg.CacheSize))
	}

	return store, nil
}
