package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/errand/pkg/ports"
)

// slot guards one key. refs counts the holder and the waiters.
type slot struct {
	ch   chan struct{}
	refs int
}

// Locker implements ports.Locker for a single process.
// Each key is guarded by a one-slot channel so waiters can honor their context.
// Slots are dropped once nobody holds or awaits them.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

func (l *Locker) acquire(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s.ch
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		return
	}
	s.refs--
	if s.refs <= 0 {
		delete(l.slots, key)
	}
}

// Len reports how many keys are held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Lock acquires the lock for key. ttl is ignored: an in-process holder cannot
// disappear without the process going with it.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	ch := l.acquire(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-ch
			l.release(key)
		})
		return nil
	}, nil
}
