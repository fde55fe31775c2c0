package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	end   time.Time
}

// MemoryLimiter keeps counters in process memory. Counters are lost on restart
// and are not shared between replicas.
type MemoryLimiter struct {
	opts Options
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryLimiter starts a limiter and its background sweep.
func NewMemoryLimiter(opts Options) *MemoryLimiter {
	return newMemoryLimiter(opts, time.Now, true)
}

func newMemoryLimiter(opts Options, now func() time.Time, sweep bool) *MemoryLimiter {
	l := &MemoryLimiter{
		opts:    opts.withDefaults(),
		now:     now,
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if sweep {
		go l.sweepLoop()
	} else {
		close(l.done)
	}
	return l
}

// Admit counts one request against clientID's current window.
func (l *MemoryLimiter) Admit(_ context.Context, clientID string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientID]
	if !ok || !now.Before(w.end) {
		w = &window{count: 1, end: now.Add(l.opts.Window)}
		l.windows[clientID] = w
		return Decision{Allowed: true, Remaining: l.opts.MaxRequests - 1, ResetAt: w.end}, nil
	}

	if w.count >= l.opts.MaxRequests {
		return Decision{Allowed: false, Remaining: 0, ResetAt: w.end}, nil
	}

	w.count++
	return Decision{Allowed: true, Remaining: l.opts.MaxRequests - w.count, ResetAt: w.end}, nil
}

// Close stops the sweep goroutine. It is safe to call more than once.
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
	return nil
}

// Len reports how many identifiers are currently tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *MemoryLimiter) sweepLoop() {
	defer close(l.done)
	ticker := time.NewTicker(l.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep(l.now())
		}
	}
}

// sweep drops every window that has ended at or before now.
func (l *MemoryLimiter) sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.windows {
		if !now.Before(w.end) {
			delete(l.windows, id)
			removed++
		}
	}
	return removed
}

var _ Limiter = (*MemoryLimiter)(nil)
