package ratelimit

import (
	"context"
	"fmt"
	"time"

	"photo_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "photo_portal:ratelimit:"

// admitScript checks the counter before incrementing so a rejected request
// never moves it past ARGV[1]. The expiry is set when the window opens.
var admitScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local max = tonumber(ARGV[1])
if current >= max then
  return {0, current, redis.call('PTTL', KEYS[1])}
end
local n = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if n == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  ttl = tonumber(ARGV[2])
end
return {1, n, ttl}
`)

// RedisLimiter shares counters between replicas through Redis. When Redis is
// unreachable it admits the request and logs, since the quota is best-effort.
type RedisLimiter struct {
	client  *redis.Client
	opts    Options
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// NewRedisLimiter wraps an existing client. Close closes the client.
func NewRedisLimiter(client *redis.Client, opts Options, log *logger.Logger) *RedisLimiter {
	if log == nil {
		log = logger.Discard()
	}
	return &RedisLimiter{
		client:  client,
		opts:    opts.withDefaults(),
		timeout: 250 * time.Millisecond,
		log:     log,
		now:     time.Now,
	}
}

// Admit counts one request against clientID's current window.
func (l *RedisLimiter) Admit(ctx context.Context, clientID string) (Decision, error) {
	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := admitScript.Run(runCtx, l.client,
		[]string{redisKeyPrefix + clientID},
		l.opts.MaxRequests,
		l.opts.Window.Milliseconds(),
	).Int64Slice()
	if err == nil && len(res) != 3 {
		err = fmt.Errorf("unexpected script reply length %d", len(res))
	}
	if err != nil {
		l.log.WithContext(ctx).Error("redis rate limiter unavailable, admitting request",
			"client_id", clientID,
			"error", err,
		)
		return Decision{
			Allowed:   true,
			Remaining: l.opts.MaxRequests - 1,
			ResetAt:   l.now().Add(l.opts.Window),
		}, nil
	}

	ttl := time.Duration(res[2]) * time.Millisecond
	if ttl <= 0 {
		ttl = l.opts.Window
	}
	decision := Decision{
		Allowed: res[0] == 1,
		ResetAt: l.now().Add(ttl),
	}
	if decision.Allowed {
		decision.Remaining = l.opts.MaxRequests - int(res[1])
	}
	return decision, nil
}

// Close releases the Redis connection pool.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

var _ Limiter = (*RedisLimiter)(nil)
