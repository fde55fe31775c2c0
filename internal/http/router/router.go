// Package router builds the gin engine and mounts every module.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "photo_portal_backend/internal/http"
	"photo_portal_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const healthCheckTimeout = 2 * time.Second

// Public routes get a token bucket of publicBurst requests refilled at publicRate.
// The contact form quota itself is enforced by the intake limiter.
const (
	publicRate  = rate.Limit(1)
	publicBurst = 20
)

// New builds the engine for app.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	if proxies := app.Config.GetTrustedProxies(); len(proxies) > 0 {
		if err := engine.SetTrustedProxies(proxies); err != nil {
			app.Logger.Warn("invalid TRUSTED_PROXIES, trusting none", "error", err)
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.GET("/api/health", healthHandler(app.Health))
	if app.Config.GetMetricsEnabled() {
		gatherer := app.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	publicGuard := httpkit.NewIPRateLimiter(publicRate, publicBurst, app.Logger).RateLimit()
	authMiddleware := httpkit.AuthRequired(app.Config)

	api := engine.Group("/api")
	v1 := api.Group("/v1")
	protected := v1.Group("", authMiddleware)

	rc := &apphttp.RouterContext{
		Engine:         engine,
		API:            api,
		V1:             v1,
		Public:         v1.Group("/public", publicGuard),
		Protected:      protected,
		Admin:          protected.Group("/admin", httpkit.RequireRole("admin")),
		Config:         app.Config,
		AuthMiddleware: authMiddleware,
		PublicGuard:    publicGuard,
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Info("module registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{"X-RateLimit-Remaining", "Retry-After", httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

func healthHandler(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code, db := "ok", http.StatusOK, gin.H{"status": "up"}
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
				db = gin.H{"status": "down"}
			}
		}
		c.JSON(code, gin.H{
			"status":     status,
			"components": gin.H{"database": db},
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}
