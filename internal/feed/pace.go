package feed

import (
	"context"
	"sync"
	"time"
)

// MinInterval wraps a Source and enforces a minimum time between calls.
// The repository fetches its symbols sequentially through this wrapper,
// which keeps the upstream endpoint from throttling us. A call made
// before the interval has elapsed waits, or returns early if the
// context is canceled.
type MinInterval struct {
	S        Source
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) Fetch(ctx context.Context, symbol string) (string, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		wait := time.Until(m.last.Add(m.Interval))
		m.mu.Unlock()
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-t.C:
			}
		}
	}
	body, err := m.S.Fetch(ctx, symbol)
	if m.Interval > 0 {
		m.mu.Lock()
		m.last = time.Now()
		m.mu.Unlock()
	}
	return body, err
}
