package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_ContractWithTTL(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore(memory.WithTTL(time.Hour)))
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore(
		memory.WithTTL(time.Hour),
		memory.WithClock(func() time.Time { return now }),
	)

	require.NoError(t, store.Save(ctx, domain.NewSession("old", "/")))
	now = now.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, domain.NewSession("young", "/")))

	now = now.Add(45 * time.Minute)
	_, err := store.Load(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Load(ctx, "young")
	assert.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"young"}, ids)
	assert.Equal(t, 1, store.Len(), "expired sessions are dropped")

	require.NoError(t, store.Save(ctx, domain.NewSession("young", "/docs")))
	now = now.Add(59 * time.Minute)
	loaded, err := store.Load(ctx, "young")
	require.NoError(t, err, "saving extends the lifetime")
	assert.Equal(t, "/docs", loaded.CurrentPath)
}

func TestMemoryLocker_Contract(t *testing.T) {
	ports.RunLockerContract(t, memory.NewLocker())
}

func TestMemoryLocker_ReleasesKeys(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()

	for i := 0; i < 100; i++ {
		unlock, err := locker.Lock(ctx, fmt.Sprintf("key-%d", i), time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
		require.NoError(t, unlock(ctx), "unlock is idempotent")
	}
	assert.Zero(t, locker.Len())

	unlock, err := locker.Lock(ctx, "held", time.Second)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := locker.Lock(waitCtx, "held", time.Second)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, locker.Len())

	require.NoError(t, unlock(ctx))
	assert.Zero(t, locker.Len())
}

func TestMemoryJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, memory.NewJournal())
}
