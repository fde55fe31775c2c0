package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(max int) (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := newMemoryLimiter(Options{MaxRequests: max, Window: time.Hour}, clock.Now, false)
	return l, clock
}

func TestMemoryLimiterRemainingCountsDown(t *testing.T) {
	l, _ := newTestLimiter(3)
	defer l.Close()

	want := []int{2, 1, 0}
	for i, remaining := range want {
		d, err := l.Admit(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
		if !d.Allowed || d.Remaining != remaining {
			t.Fatalf("admit %d: got allowed=%v remaining=%d, want allowed remaining=%d", i, d.Allowed, d.Remaining, remaining)
		}
	}

	d, _ := l.Admit(context.Background(), "203.0.113.7")
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected rejection with remaining 0, got %+v", d)
	}
}

func TestMemoryLimiterRejectionDoesNotIncrement(t *testing.T) {
	l, _ := newTestLimiter(1)
	defer l.Close()

	ctx := context.Background()
	_, _ = l.Admit(ctx, "a")
	for i := 0; i < 5; i++ {
		_, _ = l.Admit(ctx, "a")
	}

	l.mu.Lock()
	count := l.windows["a"].count
	l.mu.Unlock()
	if count != 1 {
		t.Fatalf("expected count to stay at the maximum, got %d", count)
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	l, clock := newTestLimiter(10)
	defer l.Close()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if d, _ := l.Admit(ctx, "198.51.100.1"); !d.Allowed {
			t.Fatalf("request %d unexpectedly rejected", i)
		}
	}
	if d, _ := l.Admit(ctx, "198.51.100.1"); d.Allowed {
		t.Fatal("11th request within the window should be rejected")
	}

	clock.Advance(time.Hour + time.Second)
	d, _ := l.Admit(ctx, "198.51.100.1")
	if !d.Allowed || d.Remaining != 9 {
		t.Fatalf("expected fresh window with remaining 9, got %+v", d)
	}
}

func TestMemoryLimiterIdentifiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1)
	defer l.Close()
	ctx := context.Background()

	if d, _ := l.Admit(ctx, "a"); !d.Allowed {
		t.Fatal("first request for a rejected")
	}
	if d, _ := l.Admit(ctx, "b"); !d.Allowed {
		t.Fatal("first request for b rejected")
	}
}

func TestMemoryLimiterSweepRemovesExpired(t *testing.T) {
	l, clock := newTestLimiter(5)
	defer l.Close()
	ctx := context.Background()

	_, _ = l.Admit(ctx, "old")
	clock.Advance(30 * time.Minute)
	_, _ = l.Admit(ctx, "new")
	clock.Advance(31 * time.Minute)

	if removed := l.sweep(clock.Now()); removed != 1 {
		t.Fatalf("expected 1 expired record removed, got %d", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 live record, got %d", l.Len())
	}
}

func TestMemoryLimiterConcurrentAdmitsNeverExceedMax(t *testing.T) {
	l, _ := newTestLimiter(10)
	defer l.Close()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := l.Admit(context.Background(), "burst")
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Fatalf("expected exactly 10 admissions, got %d", allowed)
	}
}

func TestMemoryLimiterCloseStopsSweep(t *testing.T) {
	l := NewMemoryLimiter(Options{MaxRequests: 1, Window: time.Minute, SweepInterval: time.Millisecond})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
