package storage

import (
	"context"
	"time"
)

// Storage is a key/value store for encoded session snapshots whose entries
// expire on their own. Expiry is the store's responsibility: once an entry's
// TTL has elapsed GetSnapshot must report model.ErrSnapshotNotFound.
type Storage interface {
	// SaveSnapshot stores data under key, replacing any prior value.
	// A ttl <= 0 stores the entry without expiry.
	SaveSnapshot(ctx context.Context, key string, data []byte, ttl time.Duration) error
	GetSnapshot(ctx context.Context, key string) ([]byte, error)
	// DeleteSnapshot removes the entry; deleting a missing key is not an error
	DeleteSnapshot(ctx context.Context, key string) error
	// SnapshotTTL returns the remaining lifetime of the entry, or 0 if it has none
	SnapshotTTL(ctx context.Context, key string) (time.Duration, error)
}
