package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

const defaultPath = "club.db"

// KV keeps every key as one row of the state table. A Set call is a single
// transaction, so a flush lands completely or not at all.
type KV struct {
	db        *sql.DB
	namespace string
}

var _ ports.KeyValueStore = (*KV)(nil)

// Open creates the database file (and its directory) when missing and
// ensures the state table exists.
func Open(ctx context.Context, path, namespace string) (*KV, error) {
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time; sqlite serialises writes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &KV{db: db, namespace: namespace}, nil
}

func (kv *KV) bucket(key string) string {
	if kv.namespace == "" {
		return key
	}
	return kv.namespace + ":" + key
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := kv.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, kv.bucket(key)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) (retErr error) {
	tx, err := kv.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			kv.bucket(e.Key), e.Value); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (kv *KV) Ping(ctx context.Context) error {
	return kv.db.PingContext(ctx)
}

func (kv *KV) Close() error {
	return kv.db.Close()
}
