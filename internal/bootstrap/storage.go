package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/storefront/internal/config"
	"github.com/osse101/storefront/internal/pricing"
	"github.com/osse101/storefront/internal/store"
)

// OpenStorage builds the configured keyed store and wraps it in the
// read-through cache. The cache is the only writer in this process, so
// every write keeps it current.
func OpenStorage(ctx context.Context, cfg *config.Config) (*store.CachedBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, StorageConnectTimeout)
	defer cancel()

	inner, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStorage, err)
	}

	slog.Info(LogMsgStorageReady,
		"backend", cfg.StoreBackend,
		"cache_size", cfg.CacheSize,
		"cache_ttl", cfg.CacheTTL)
	return store.NewCachedBackend(inner, cfg.CacheSize, cfg.CacheTTL), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return store.NewMemoryBackend(), nil
	case config.StoreBackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, DirPermission); err != nil {
				return nil, err
			}
		}
		return store.NewSQLiteBackend(ctx, cfg.SQLitePath)
	case config.StoreBackendPostgres:
		return store.NewPostgresBackend(ctx, cfg.GetDBConnString())
	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		backend := store.NewRedisBackend(client, RedisKeyPrefix)
		if err := backend.Ping(ctx); err != nil {
			_ = backend.Close()
			return nil, err
		}
		return backend, nil
	}
	return nil, fmt.Errorf("%s %q", ErrMsgUnknownStoreBackend, cfg.StoreBackend)
}

// LoadPricingRules reads the fee schedule. When the file does not exist the
// built-in fees are used and written to path so they can be edited. A file
// that exists but fails validation is an error.
func LoadPricingRules(path string) (pricing.Rules, error) {
	rules, err := pricing.LoadRules(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn(LogMsgPricingRulesDefaults, "path", path)
		defaults := pricing.DefaultRules()
		if saveErr := pricing.SaveRules(path, defaults); saveErr != nil {
			slog.Warn(LogMsgPricingRulesNotSaved, "path", path, "error", saveErr)
		}
		return defaults, nil
	}
	if err != nil {
		return pricing.Rules{}, fmt.Errorf("%s: %w", ErrMsgFailedLoadPricing, err)
	}

	slog.Info(LogMsgPricingRulesLoaded, "path", path, "version", rules.Version)
	return rules, nil
}
