package redis

import "fmt"

// Key prefix for all scorekeeper data
const keyPrefix = "scorekeeper"

// snapshotKey returns the Redis key for a session snapshot
func snapshotKey(key string) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, key)
}
