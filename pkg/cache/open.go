package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/dbgasm/pkg/config"
)

// Open creates the backend named by cfg.Backend. Network backends are
// wrapped in a BreakerCache.
func Open(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Backend {
	case "none":
		return NewNullCache(), nil
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(d, "cache.db")
		}
		c, err := NewSQLiteCache(path)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "redis":
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return NewBreakerCache(c, "redis", DefaultBreakerSettings()), nil
	case "mongo":
		c, err := NewMongoCache(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
		if err != nil {
			return nil, err
		}
		return NewBreakerCache(c, "mongo", DefaultBreakerSettings()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// DefaultDir returns the cache directory using the XDG standard
// (~/.cache/dbgasm/).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "dbgasm"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "dbgasm"), nil
}
