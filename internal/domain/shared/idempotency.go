package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already processed, such as
// provider webhook receipt IDs.
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly marked, false if it
	// had already been seen within ttl.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
