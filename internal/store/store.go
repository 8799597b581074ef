// Package store persists ledger state as JSON strings under a handful of keys.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gastozen-dev/gastozen/internal/config"
)

// Keys persisted by the ledger.
const (
	KeyTransactions = "transactions"
	KeyAccounts     = "accounts"
	KeyCategories   = "categories"
	KeyTheme        = "theme"
)

// Keys lists every key the application writes.
var Keys = []string{KeyTransactions, KeyAccounts, KeyCategories, KeyTheme}

// Store is a string key-value store. SetMany must apply all values or none.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open returns the backend selected by cfg. Relative paths are resolved
// against baseDir.
func Open(cfg config.StoreConfig, baseDir string) (Store, error) {
	path := cfg.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	switch cfg.Backend {
	case config.BackendFile, "":
		return OpenFile(path)
	case config.BackendSQLite:
		return OpenSQLite(path)
	case config.BackendRedis:
		return OpenRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
