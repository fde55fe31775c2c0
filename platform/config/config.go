// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
// Tokens are issued by the external identity provider; this service only verifies them.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetTrustedProxies() []string
}

// RateLimitConfig provides settings for the intake rate limiter.
type RateLimitConfig interface {
	GetRateLimitMaxRequests() int
	GetRateLimitWindow() time.Duration
	GetRateLimitSweepInterval() time.Duration
	GetRateLimitBackend() string
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSendGridAPIKey() string
	GetSESRegion() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// BrandingConfig provides the studio details rendered into lead emails.
type BrandingConfig interface {
	GetSiteURL() string
	GetPhotographerName() string
	GetPhotographerEmail() string
	GetPhotographerPhone() string
	GetLeadNotifyEmail() string
	GetEmailFromAddress() string
	GetLocation() *time.Location
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetNotificationMode() string
	GetNotificationTimeout() time.Duration
}

// SchedulerConfig provides settings for the asynq queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOPublicBaseURL() string
	GetMinioBucketReferenceFiles() string
	IsMinIOEnabled() bool
}

// MetricsConfig provides settings for the Prometheus endpoint.
type MetricsConfig interface {
	GetMetricsEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	JWTAccessSecret           string
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	TrustedProxies            []string
	RateLimitMaxRequests      int
	RateLimitWindow           time.Duration
	RateLimitSweepInterval    time.Duration
	RateLimitBackend          string
	EmailEnabled              bool
	EmailProvider             string
	BrevoAPIKey               string
	SendGridAPIKey            string
	SESRegion                 string
	SMTPHost                  string
	SMTPPort                  int
	SMTPUsername              string
	SMTPPassword              string
	EmailFromName             string
	EmailFromAddress          string
	LeadNotifyEmail           string
	SiteURL                   string
	PhotographerName          string
	PhotographerEmail         string
	PhotographerPhone         string
	NotificationMode          string
	NotificationTimeout       time.Duration
	RedisURL                  string
	RedisTLSInsecure          bool
	AsynqQueueName            string
	AsynqConcurrency          int
	MinIOEndpoint             string
	MinIOAccessKey            string
	MinIOSecretKey            string
	MinIOUseSSL               bool
	MinIOMaxFileSize          int64
	MinIOPublicBaseURL        string
	MinioBucketReferenceFiles string
	MetricsEnabled            bool
	Timezone                  string
	location                  *time.Location
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetTrustedProxies() []string { return c.TrustedProxies }

// RateLimitConfig implementation
func (c *Config) GetRateLimitMaxRequests() int             { return c.RateLimitMaxRequests }
func (c *Config) GetRateLimitWindow() time.Duration        { return c.RateLimitWindow }
func (c *Config) GetRateLimitSweepInterval() time.Duration { return c.RateLimitSweepInterval }
func (c *Config) GetRateLimitBackend() string              { return c.RateLimitBackend }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSendGridAPIKey() string   { return c.SendGridAPIKey }
func (c *Config) GetSESRegion() string        { return c.SESRegion }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// BrandingConfig implementation
func (c *Config) GetSiteURL() string           { return c.SiteURL }
func (c *Config) GetPhotographerName() string  { return c.PhotographerName }
func (c *Config) GetPhotographerEmail() string { return c.PhotographerEmail }
func (c *Config) GetPhotographerPhone() string { return c.PhotographerPhone }

// GetLocation returns the studio time zone used for email dates and dashboard stats.
func (c *Config) GetLocation() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// GetLeadNotifyEmail returns the operator inbox, falling back to the sender address.
func (c *Config) GetLeadNotifyEmail() string {
	if c.LeadNotifyEmail != "" {
		return c.LeadNotifyEmail
	}
	return c.EmailFromAddress
}

// NotificationConfig implementation
func (c *Config) GetNotificationMode() string           { return c.NotificationMode }
func (c *Config) GetNotificationTimeout() time.Duration { return c.NotificationTimeout }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64    { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOPublicBaseURL() string { return c.MinIOPublicBaseURL }
func (c *Config) GetMinioBucketReferenceFiles() string {
	return c.MinioBucketReferenceFiles
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// MetricsConfig implementation
func (c *Config) GetMetricsEnabled() bool { return c.MetricsEnabled }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailProvider := strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "brevo")))
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTAccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		TrustedProxies:            splitCSV(getEnv("TRUSTED_PROXIES", "")),
		RateLimitMaxRequests:      mustInt(getEnv("RATE_LIMIT_MAX_REQUESTS", "10")),
		RateLimitWindow:           mustDuration(getEnv("RATE_LIMIT_WINDOW", "1h")),
		RateLimitSweepInterval:    mustDuration(getEnv("RATE_LIMIT_SWEEP_INTERVAL", "5m")),
		RateLimitBackend:          strings.ToLower(getEnv("RATE_LIMIT_BACKEND", "memory")),
		EmailEnabled:              emailEnabled,
		EmailProvider:             emailProvider,
		BrevoAPIKey:               getEnv("BREVO_API_KEY", ""),
		SendGridAPIKey:            getEnv("SENDGRID_API_KEY", ""),
		SESRegion:                 getEnv("AWS_REGION", ""),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "Portfolio"),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", ""),
		LeadNotifyEmail:           getEnv("LEAD_NOTIFY_EMAIL", ""),
		SiteURL:                   strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		PhotographerName:          getEnv("PHOTOGRAPHER_NAME", ""),
		PhotographerEmail:         getEnv("PHOTOGRAPHER_EMAIL", ""),
		PhotographerPhone:         getEnv("PHOTOGRAPHER_PHONE", ""),
		NotificationMode:          strings.ToLower(getEnv("NOTIFICATION_MODE", "inline")),
		NotificationTimeout:       mustDuration(getEnv("NOTIFICATION_TIMEOUT", "10s")),
		RedisURL:                  getEnv("REDIS_URL", ""),
		RedisTLSInsecure:          strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:            getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:          mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		MinIOEndpoint:             getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:            getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:            getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:               strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:          mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinIOPublicBaseURL:        strings.TrimRight(getEnv("MINIO_PUBLIC_BASE_URL", ""), "/"),
		MinioBucketReferenceFiles: getEnv("MINIO_BUCKET_REFERENCE_FILES", "reference-files"),
		MetricsEnabled:            strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		Timezone:                  getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.RateLimitMaxRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be a positive integer")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be a positive duration")
	}
	switch c.RateLimitBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND is redis")
		}
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimitBackend)
	}
	if c.EmailEnabled {
		if c.EmailFromAddress == "" {
			return fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
		}
		switch c.EmailProvider {
		case "brevo":
			if c.BrevoAPIKey == "" {
				return fmt.Errorf("BREVO_API_KEY is required when EMAIL_PROVIDER is brevo")
			}
		case "sendgrid":
			if c.SendGridAPIKey == "" {
				return fmt.Errorf("SENDGRID_API_KEY is required when EMAIL_PROVIDER is sendgrid")
			}
		case "ses":
			if c.SESRegion == "" {
				return fmt.Errorf("AWS_REGION is required when EMAIL_PROVIDER is ses")
			}
		case "smtp":
			if c.SMTPHost == "" {
				return fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
			}
		default:
			return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.EmailProvider)
		}
	}
	switch c.NotificationMode {
	case "inline":
	case "queue":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when NOTIFICATION_MODE is queue")
		}
	default:
		return fmt.Errorf("NOTIFICATION_MODE must be inline or queue, got %q", c.NotificationMode)
	}
	if c.NotificationTimeout <= 0 {
		c.NotificationTimeout = 10 * time.Second
	}
	if c.RateLimitSweepInterval <= 0 {
		c.RateLimitSweepInterval = 5 * time.Minute
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	if !c.CORSAllowAll && len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
