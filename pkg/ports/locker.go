package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes access to a key (e.g., an explorer path) across goroutines
// or, for distributed implementations, across explorer replicas.
type Locker interface {
	// Lock blocks until the lock for key is acquired or the context is canceled.
	// The lock expires after ttl if the holder never releases it (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
