package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestLimiter(t *testing.T, max int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client, Options{MaxRequests: max, Window: time.Hour}, nil)
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLimiterCountsAndRejects(t *testing.T) {
	l, mr := newRedisTestLimiter(t, 2)
	ctx := context.Background()

	d, err := l.Admit(ctx, "203.0.113.9")
	if err != nil || !d.Allowed || d.Remaining != 1 {
		t.Fatalf("first admit: %+v err=%v", d, err)
	}
	d, _ = l.Admit(ctx, "203.0.113.9")
	if !d.Allowed || d.Remaining != 0 {
		t.Fatalf("second admit: %+v", d)
	}
	d, _ = l.Admit(ctx, "203.0.113.9")
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("third admit should be rejected: %+v", d)
	}

	got, err := mr.Get(redisKeyPrefix + "203.0.113.9")
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if got != "2" {
		t.Fatalf("rejected request moved the counter to %s", got)
	}
	if ttl := mr.TTL(redisKeyPrefix + "203.0.113.9"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %s", ttl)
	}
}

func TestRedisLimiterWindowExpires(t *testing.T) {
	l, mr := newRedisTestLimiter(t, 1)
	ctx := context.Background()

	_, _ = l.Admit(ctx, "x")
	if d, _ := l.Admit(ctx, "x"); d.Allowed {
		t.Fatal("expected rejection inside window")
	}

	mr.FastForward(time.Hour + time.Second)

	if d, _ := l.Admit(ctx, "x"); !d.Allowed {
		t.Fatal("expected admission after the window expired")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	l, mr := newRedisTestLimiter(t, 1)
	mr.Close()

	d, err := l.Admit(context.Background(), "x")
	if err != nil {
		t.Fatalf("expected no error when redis is down, got %v", err)
	}
	if !d.Allowed {
		t.Fatal("expected fail-open admission")
	}
}
