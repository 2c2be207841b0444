package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency and counts overlapping calls per session.
type slowStore struct {
	ports.SessionStore
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (s *slowStore) enter() func() {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	time.Sleep(5 * time.Millisecond)
	return func() { s.inFlight.Add(-1) }
}

func (s *slowStore) Save(ctx context.Context, session *domain.Session) error {
	defer s.enter()()
	return s.SessionStore.Save(ctx, session)
}

func (s *slowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	defer s.enter()()
	return s.SessionStore.Load(ctx, id)
}

func TestManager_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, NewManager(memory.NewStore()))
}

func TestManager_SerializesSameSession(t *testing.T) {
	store := &slowStore{SessionStore: memory.NewStore()}
	mgr := NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := mgr.Save(ctx, domain.NewSession("race", fmt.Sprintf("/dir-%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.False(t, store.overlap.Load(), "saves to one session must not overlap")
}

func TestManager_LoadOrStart(t *testing.T) {
	mgr := NewManager(&slowStore{SessionStore: memory.NewStore()})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*domain.Session, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := mgr.LoadOrStart(ctx, "atomic-init", "/home")
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	loaded, err := mgr.Load(ctx, "atomic-init")
	require.NoError(t, err)
	assert.Equal(t, "/home", loaded.CurrentPath)
	for _, s := range results {
		require.NotNil(t, s)
		assert.True(t, loaded.UpdatedAt.Equal(s.UpdatedAt), "both callers see the first session")
	}
}

func TestManager_LocksAreReleased(t *testing.T) {
	mgr := NewManager(memory.NewStore(), WithLocker(memory.NewLocker()))
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("session-%d", i)
		require.NoError(t, mgr.Save(ctx, domain.NewSession(id, "/")))
		require.NoError(t, mgr.Delete(ctx, id))
	}

	assert.Zero(t, mgr.active())
}

func TestManager_LockerTimeout(t *testing.T) {
	locker := memory.NewLocker()
	mgr := NewManager(memory.NewStore(), WithLocker(locker))

	unlock, err := locker.Lock(context.Background(), "session:held", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = mgr.Load(ctx, "held")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_WithLockIsReentrant(t *testing.T) {
	mgr := NewManager(memory.NewStore(), WithLocker(memory.NewLocker()))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := mgr.WithLock(ctx, "nested", func(ctx context.Context) error {
		s, err := mgr.LoadOrStart(ctx, "nested", "/home")
		if err != nil {
			return err
		}
		s.CurrentPath = "/home/docs"
		return mgr.Save(ctx, s)
	})
	require.NoError(t, err)

	loaded, err := mgr.Load(context.Background(), "nested")
	require.NoError(t, err)
	assert.Equal(t, "/home/docs", loaded.CurrentPath)
	assert.Zero(t, mgr.active())
}

func TestManager_WithLockKeepsReadModifyWriteWhole(t *testing.T) {
	store := memory.NewStore()
	mgr := NewManager(store)
	ctx := context.Background()
	_, err := mgr.LoadOrStart(ctx, "shared", "/")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := mgr.WithLock(ctx, "shared", func(ctx context.Context) error {
				s, err := mgr.Load(ctx, "shared")
				if err != nil {
					return err
				}
				time.Sleep(time.Millisecond)
				s.Arm(fmt.Sprintf("/file-%d", i))
				return mgr.Save(ctx, s)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, loaded.Armed, 20, "no update is lost")
}

func TestManager_WithLockOtherSessionStillLocks(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	inner := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = mgr.WithLock(ctx, "b", func(context.Context) error {
			close(inner)
			<-release
			return nil
		})
	}()
	<-inner

	timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = mgr.WithLock(timeout, "a", func(ctx context.Context) error {
			return mgr.WithLock(ctx, "b", func(context.Context) error { return nil })
		})
	}()

	select {
	case <-done:
		t.Fatal("holding a must not grant b")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	<-done
}
