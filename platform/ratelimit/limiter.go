// Package ratelimit provides fixed-window request quotas keyed by an opaque
// client identifier. Two backends exist: a process-local map and Redis.
// This is part of the platform layer and contains no business logic.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"photo_portal_backend/platform/config"
	"photo_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter admits or rejects requests per client identifier.
// Admit is safe for concurrent use; check and increment happen atomically
// per identifier so the counter never passes the configured maximum.
type Limiter interface {
	Admit(ctx context.Context, clientID string) (Decision, error)
	Close() error
}

// Options configures a limiter.
type Options struct {
	MaxRequests   int
	Window        time.Duration
	SweepInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRequests < 1 {
		o.MaxRequests = 10
	}
	if o.Window <= 0 {
		o.Window = time.Hour
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 5 * time.Minute
	}
	return o
}

// OptionsFromConfig reads limiter options from configuration.
func OptionsFromConfig(cfg config.RateLimitConfig) Options {
	return Options{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		Window:        cfg.GetRateLimitWindow(),
		SweepInterval: cfg.GetRateLimitSweepInterval(),
	}.withDefaults()
}

// New builds the limiter selected by RATE_LIMIT_BACKEND.
func New(cfg config.RateLimitConfig, redisURL string, log *logger.Logger) (Limiter, error) {
	opts := OptionsFromConfig(cfg)
	switch cfg.GetRateLimitBackend() {
	case "", "memory":
		return NewMemoryLimiter(opts), nil
	case "redis":
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return NewRedisLimiter(redis.NewClient(redisOpts), opts, log), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.GetRateLimitBackend())
	}
}
