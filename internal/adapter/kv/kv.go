// Package kv provides the single-key storage backends the alert store is
// persisted to. Every backend holds opaque byte values under string keys.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/flood-response-service/internal/config"
)

// ErrUnsupported is returned by New for an unknown backend name.
var ErrUnsupported = errors.New("unsupported storage type")

// Store reads and writes whole values by key.
type Store interface {
	// Get returns the value under key. The boolean is false when nothing has
	// been stored yet.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// New opens the backend selected by cfg.StorageType.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageType {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorageRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	case config.StoragePostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, cfg.StorageType)
	}
}
