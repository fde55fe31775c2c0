package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/photo")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("EMAIL_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BACKEND", "memory")
	t.Setenv("NOTIFICATION_MODE", "inline")
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GetRateLimitMaxRequests() != 10 {
		t.Fatalf("max requests = %d", cfg.GetRateLimitMaxRequests())
	}
	if cfg.GetRateLimitWindow() != time.Hour {
		t.Fatalf("window = %v", cfg.GetRateLimitWindow())
	}
	if cfg.GetNotificationTimeout() != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.GetNotificationTimeout())
	}
	if cfg.GetLocation().String() != "America/Sao_Paulo" {
		t.Fatalf("location = %v", cfg.GetLocation())
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestLoadRedisBackendNeedsURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "REDIS_URL") {
		t.Fatalf("expected REDIS_URL error, got %v", err)
	}
}

func TestLoadEmailProviderRequirements(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_FROM_ADDRESS", "studio@example.com")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SENDGRID_API_KEY") {
		t.Fatalf("expected SENDGRID_API_KEY error, got %v", err)
	}

	t.Setenv("EMAIL_PROVIDER", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}

func TestLeadNotifyEmailFallsBackToFromAddress(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMAIL_FROM_ADDRESS", "studio@example.com")
	t.Setenv("LEAD_NOTIFY_EMAIL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.GetLeadNotifyEmail(); got != "studio@example.com" {
		t.Fatalf("notify email = %q", got)
	}
}

func TestCORSWildcardWithCredentialsRejected(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origins with credentials")
	}
}

func TestInvalidTimezoneRejected(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_TIMEZONE") {
		t.Fatalf("expected APP_TIMEZONE error, got %v", err)
	}
}
