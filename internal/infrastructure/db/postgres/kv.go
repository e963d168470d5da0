// Package postgres stores the club state in a PostgreSQL table, one row per
// key.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

const (
	defaultConnectTimeout = 5 * time.Second

	createTable = `CREATE TABLE IF NOT EXISTS club_state (
		namespace TEXT NOT NULL,
		bucket    TEXT NOT NULL,
		payload   BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, bucket)
	)`
	selectPayload = `SELECT payload FROM club_state WHERE namespace = $1 AND bucket = $2`
	upsertPayload = `INSERT INTO club_state(namespace, bucket, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

// Config captures the settings for the connection pool.
type Config struct {
	DSN       string
	Namespace string
	MaxConns  int32
	Timeout   time.Duration
}

// KV is a ports.KeyValueStore backed by a pgx pool. Set runs as one
// transaction.
type KV struct {
	pool      *pgxpool.Pool
	namespace string
}

var _ ports.KeyValueStore = (*KV)(nil)

// Open connects, pings and ensures the state table exists.
func Open(ctx context.Context, cfg Config) (*KV, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	if _, err := pool.Exec(connectCtx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &KV{pool: pool, namespace: cfg.Namespace}, nil
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := kv.pool.QueryRow(ctx, selectPayload, kv.namespace, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) error {
	return pgx.BeginFunc(ctx, kv.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(upsertPayload, kv.namespace, e.Key, e.Value)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert state: %w", err)
		}
		return nil
	})
}

func (kv *KV) Ping(ctx context.Context) error {
	return kv.pool.Ping(ctx)
}

func (kv *KV) Close() {
	kv.pool.Close()
}
