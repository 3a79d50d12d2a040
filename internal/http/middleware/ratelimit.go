package middleware

import (
	"sync"
	"time"
)

type clientInfo struct {
	start time.Time
	count int
}

// memoryWindow is a fixed-window counter kept in process memory. It backs
// the rate limiter when Redis is not configured.
type memoryWindow struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time
}

func newMemoryWindow() *memoryWindow {
	return &memoryWindow{clients: make(map[string]*clientInfo), now: time.Now}
}

// incr counts one hit for key and returns the count within the current window.
func (m *memoryWindow) incr(key string, window time.Duration) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) >= window {
		m.clients[key] = &clientInfo{start: now, count: 1}
		m.sweep(now, window)
		return 1
	}
	ci.count++
	return int64(ci.count)
}

// sweep drops windows that ended long ago so the map does not grow unbounded.
func (m *memoryWindow) sweep(now time.Time, window time.Duration) {
	if len(m.clients) < 10000 {
		return
	}
	for k, ci := range m.clients {
		if now.Sub(ci.start) >= 2*window {
			delete(m.clients, k)
		}
	}
}
