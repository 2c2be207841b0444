package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/adapters/redis"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestRedisLocker_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)

	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "/srv/a.txt", 5*time.Second)
	assert.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:/srv/a.txt"), "Lock key should be set in Redis")

	assert.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:/srv/a.txt"), "Lock key should be removed after unlock")
}

func TestRedisLocker_UnlockDoesNotReleaseForeignLock(t *testing.T) {
	mr, client := newClient(t)

	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k", time.Second)
	assert.NoError(t, err)

	// Simulate expiry and takeover by another replica.
	mr.FastForward(2 * time.Second)
	assert.NoError(t, mr.Set("test:lock:k", "someone-else"))

	assert.NoError(t, unlock(ctx))
	got, err := mr.Get("test:lock:k")
	assert.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
