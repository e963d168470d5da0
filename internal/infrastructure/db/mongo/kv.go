package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// stateDocument holds every key of one namespace.
type stateDocument struct {
	ID        string            `bson:"_id"`
	Entries   map[string][]byte `bson:"entries"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// KV stores a namespace as a single document. Set is one upsert on that
// document, so MongoDB applies the whole batch or none of it.
type KV struct {
	col       *mongo.Collection
	namespace string
}

var _ ports.KeyValueStore = (*KV)(nil)

func NewKV(db *mongo.Database, collection, namespace string) *KV {
	if collection == "" {
		collection = defaultCollection
	}
	return &KV{col: db.Collection(collection), namespace: namespace}
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc stateDocument
	err := kv.col.FindOne(ctx, bson.M{"_id": kv.namespace}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("mongo find %s: %w", key, err)
	}
	v, ok := doc.Entries[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	update, err := setUpdate(entries, time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = kv.col.UpdateOne(ctx, bson.M{"_id": kv.namespace}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo update %s: %w", kv.namespace, err)
	}
	return nil
}

// setUpdate builds the $set for a batch. Keys become field names, so dots
// and a leading $ are refused before anything is sent.
func setUpdate(entries []ports.Entry, now time.Time) (bson.M, error) {
	fields := bson.M{"updated_at": now}
	for _, e := range entries {
		if e.Key == "" || strings.Contains(e.Key, ".") || strings.HasPrefix(e.Key, "$") {
			return nil, fmt.Errorf("mongo: invalid key %q", e.Key)
		}
		fields["entries."+e.Key] = e.Value
	}
	return bson.M{"$set": fields}, nil
}

func (kv *KV) Ping(ctx context.Context) error {
	return kv.col.Database().Client().Ping(ctx, readpref.Primary())
}
