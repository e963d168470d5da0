package ports

import "context"

// Keys of the durable state, one per collection plus the session slot.
const (
	KeyUsers       = "users"
	KeyTasks       = "tasks"
	KeyEvents      = "events"
	KeyMeetings    = "meetings"
	KeyNews        = "news"
	KeyCurrentUser = "currentUser"
)

// StateKeys lists every key the store reads at startup and writes on flush.
var StateKeys = []string{KeyUsers, KeyTasks, KeyEvents, KeyMeetings, KeyNews, KeyCurrentUser}

// Entry is a single key/value pair written by KeyValueStore.Set.
type Entry struct {
	Key   string
	Value []byte
}

// KeyValueStore is the durable substrate behind the entity store.
type KeyValueStore interface {
	// Get returns the stored value, or domain.ErrKeyNotFound when the key
	// was never written.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes all entries. Backends that support it apply the batch
	// atomically; either way a returned error means the write must be
	// treated as failed.
	Set(ctx context.Context, entries ...Entry) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
