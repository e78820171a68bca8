package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is the in-process Counter used when Redis isn't configured
// and in tests
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

type window struct {
	count   int64
	expires time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]window),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Close() error {
	return nil
}

func (m *MemoryCounter) Incr(ctx context.Context, key string, d time.Duration) (int64, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || !now.Before(w.expires) {
		w = window{expires: now.Add(d)}
		m.sweepLocked(now)
	}
	w.count++
	m.windows[key] = w
	return w.count, w.expires.Sub(now), nil
}

func (m *MemoryCounter) sweepLocked(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.expires) {
			delete(m.windows, k)
		}
	}
}
