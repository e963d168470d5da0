package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// KV stores each state key as a plain string under <namespace>:state:<key>.
// Set wraps the writes in MULTI/EXEC so a flush is applied as a unit.
type KV struct {
	client    *redis.Client
	namespace string
}

var _ ports.KeyValueStore = (*KV)(nil)

func NewKV(client *redis.Client, namespace string) *KV {
	return &KV{client: client, namespace: namespace}
}

func (kv *KV) key(k string) string {
	return fmt.Sprintf("%s:state:%s", kv.namespace, k)
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := kv.client.Get(ctx, kv.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		pairs = append(pairs, kv.key(e.Key), e.Value)
	}
	_, err := kv.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.MSet(ctx, pairs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (kv *KV) Ping(ctx context.Context) error {
	return kv.client.Ping(ctx).Err()
}
