package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans change events out to SSE subscribers, keyed by directory.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // directory -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(dir string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[dir]; !ok {
		sm.subscribers[dir] = make(map[chan<- string]struct{})
	}
	sm.subscribers[dir][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[dir]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, dir)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(dir string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[dir]
	if !ok {
		return
	}
	slog.Debug("StreamManager: Broadcasting", "dir", dir, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "dir", dir)
		}
	}
}
