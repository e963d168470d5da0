// Package db selects and opens the key-value backend named in the
// configuration.
package db

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/infrastructure/config"
	"github.com/99minutos/club-admin/internal/infrastructure/db/memory"
	"github.com/99minutos/club-admin/internal/infrastructure/db/mongo"
	"github.com/99minutos/club-admin/internal/infrastructure/db/postgres"
	"github.com/99minutos/club-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/club-admin/internal/infrastructure/db/s3"
	"github.com/99minutos/club-admin/internal/infrastructure/db/sqlite"
)

// Backend is an opened key-value store together with its release hook.
type Backend struct {
	KV     ports.KeyValueStore
	Driver string
	close  func(ctx context.Context) error
}

// Close releases the backend's connections. Safe on a zero Backend.
func (b *Backend) Close(ctx context.Context) error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects to the configured driver. The redis driver reuses rdb when
// it is non-nil so the throttle and the store share one client.
func Open(ctx context.Context, cfg *config.Config, rdb *goredis.Client, log zerolog.Logger) (*Backend, error) {
	ns := cfg.Storage.Namespace
	driver := cfg.Storage.Driver
	noop := func(context.Context) error { return nil }

	var b *Backend
	switch driver {
	case config.DriverMemory:
		b = &Backend{KV: memory.NewKV(), close: noop}

	case config.DriverSQLite:
		kv, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, ns)
		if err != nil {
			return nil, err
		}
		b = &Backend{KV: kv, close: func(context.Context) error { return kv.Close() }}

	case config.DriverPostgres:
		kv, err := postgres.Open(ctx, postgres.Config{
			DSN:       cfg.Postgres.DSN,
			Namespace: ns,
			MaxConns:  cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		b = &Backend{KV: kv, close: func(context.Context) error { kv.Close(); return nil }}

	case config.DriverRedis:
		owned := rdb == nil
		if owned {
			var err error
			rdb, err = redis.Connect(ctx, redis.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return nil, err
			}
		}
		client := rdb
		b = &Backend{KV: redis.NewKV(client, ns), close: func(context.Context) error {
			if owned {
				return client.Close()
			}
			return nil
		}}

	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		b = &Backend{KV: mongo.NewKV(database, cfg.Mongo.Collection, ns), close: client.Disconnect}

	case config.DriverS3:
		kv, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Namespace:       ns,
		})
		if err != nil {
			return nil, err
		}
		b = &Backend{KV: kv, close: noop}

	default:
		return nil, fmt.Errorf("db: unknown driver %q", driver)
	}

	b.Driver = driver
	log.Info().Str("driver", driver).Str("namespace", ns).Msg("state backend ready")
	return b, nil
}
