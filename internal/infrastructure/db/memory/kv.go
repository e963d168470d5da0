// Package memory provides a process-local key-value store. State does not
// survive a restart; it backs tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ ports.KeyValueStore = (*KV)(nil)

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (kv *KV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	for _, e := range entries {
		kv.data[e.Key] = slices.Clone(e.Value)
	}
	return nil
}

func (kv *KV) Ping(context.Context) error { return nil }

// Keys returns the stored keys in sorted order.
func (kv *KV) Keys() []string {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	keys := make([]string, 0, len(kv.data))
	for k := range kv.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
