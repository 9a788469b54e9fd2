// Package repository opens the key/value backend that holds chat widget state.
package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/repository/file"
	"github.com/Rrens/smartchat/internal/repository/memory"
	"github.com/Rrens/smartchat/internal/repository/mongo"
	"github.com/Rrens/smartchat/internal/repository/postgres"
	"github.com/Rrens/smartchat/internal/repository/redis"
	"github.com/Rrens/smartchat/internal/repository/sqldb"
	"github.com/Rrens/smartchat/internal/security"
)

// Supported values of widget.store.driver
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

// OpenStore connects the backend named by cfg.Driver. When cfg.EncryptionKey
// is set every value is sealed with AES-GCM before it reaches the backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig, redisCfg config.RedisConfig) (domain.KVStore, error) {
	store, err := openBackend(ctx, cfg, redisCfg)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("driver", cfg.Driver).Str("namespace", cfg.Namespace).Msg("widget store opened")

	if cfg.EncryptionKey == "" {
		return store, nil
	}

	encrypted, err := security.NewEncryptedStore(ctx, store, cfg.EncryptionKey)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to enable store encryption: %w", err)
	}
	return encrypted, nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig, redisCfg config.RedisConfig) (domain.KVStore, error) {
	switch cfg.Driver {
	case DriverMemory:
		return memory.NewKVStore(), nil

	case DriverFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires widget.store.path")
		}
		return file.NewKVStore(cfg.Path), nil

	case DriverRedis:
		client, err := redis.NewClient(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return redis.NewKVStore(client, cfg.Namespace), nil

	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store requires widget.store.dsn")
		}
		db, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVStore(db, cfg.Namespace), nil

	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return sqldb.Open(ctx, DriverSQLite, dsn, cfg.Namespace)

	case DriverMySQL:
		return sqldb.Open(ctx, DriverMySQL, cfg.DSN, cfg.Namespace)

	case DriverMongo:
		return mongo.Connect(ctx, cfg.URI, cfg.Database, cfg.Collection, cfg.Namespace)

	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
