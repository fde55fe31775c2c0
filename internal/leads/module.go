// Package leads provides the lead intake bounded context module.
// This file wires the intake pipeline, the lead store and the dashboard views.
package leads

import (
	"time"

	"photo_portal_backend/internal/events"
	apphttp "photo_portal_backend/internal/http"
	"photo_portal_backend/internal/leads/handler"
	"photo_portal_backend/internal/leads/intake"
	"photo_portal_backend/internal/leads/repository"
	"photo_portal_backend/internal/observability/metrics"
	"photo_portal_backend/platform/httpkit"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/ratelimit"
	"photo_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ModuleDeps groups what the composition root hands to the leads module.
type ModuleDeps struct {
	Store    repository.LeadsRepository
	Limiter  ratelimit.Limiter
	Window   time.Duration
	Bus      events.Bus
	Val      *validator.Validator
	Metrics  *metrics.IntakeMetrics
	Location *time.Location
	Log      *logger.Logger
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	store     repository.LeadsRepository
	intake    *intake.Service
	public    *handler.PublicHandler
	dashboard *handler.Handler
}

// NewModule creates the leads module.
func NewModule(deps ModuleDeps) *Module {
	svc := intake.New(intake.Deps{
		Limiter:    deps.Limiter,
		Validator:  intake.NewValidator(deps.Val),
		Store:      deps.Store,
		Bus:        deps.Bus,
		Metrics:    deps.Metrics,
		RetryAfter: deps.Window,
		Log:        deps.Log,
	})

	return &Module{
		store:     deps.Store,
		intake:    svc,
		public:    handler.NewPublicHandler(svc),
		dashboard: handler.New(deps.Store, deps.Val, deps.Location),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Reader returns the lead store for other modules that only read leads.
func (m *Module) Reader() Reader {
	return m.store
}

// IntakeService returns the intake orchestrator.
func (m *Module) IntakeService() *intake.Service {
	return m.intake
}

// RegisterRoutes mounts the public form endpoint and the admin dashboard views.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.public.RegisterRoutes(ctx.Public.Group("/leads"))
	// Path used by the contact form before the API was versioned.
	alias := []gin.HandlerFunc{m.public.Submit}
	if ctx.PublicGuard != nil {
		alias = append([]gin.HandlerFunc{ctx.PublicGuard}, alias...)
	}
	ctx.API.POST("/leads", alias...)

	m.dashboard.RegisterRoutes(ctx.Protected.Group("/leads", httpkit.RequireRole("admin")))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
