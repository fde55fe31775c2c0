// Package intake runs the public contact-form pipeline: quota check, validation,
// persistence, then a detached hand-off to notification.
package intake

import (
	"context"
	"errors"
	"time"

	"photo_portal_backend/internal/events"
	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/internal/observability/metrics"
	"photo_portal_backend/platform/apperr"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/ratelimit"
)

// Client-facing messages.
const (
	MsgCreated     = "Mensagem enviada com sucesso! Entraremos em contato em breve."
	MsgRateLimited = "Muitas tentativas. Por favor, aguarde antes de enviar novamente."
	MsgInvalid     = "Dados inválidos"
	MsgInternal    = "Erro ao processar sua solicitação. Por favor, tente novamente."
)

// Store is the write side of the lead store used by intake.
type Store interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Lead, error)
}

// Result describes a processed submission. RateLimit is filled whenever the
// quota check ran, including when Submit returns an error afterwards.
type Result struct {
	Lead       domain.Lead
	RateLimit  ratelimit.Decision
	RetryAfter time.Duration
}

// Service is the intake orchestrator.
type Service struct {
	limiter    ratelimit.Limiter
	validator  *Validator
	store      Store
	bus        events.Bus
	metrics    *metrics.IntakeMetrics
	retryAfter time.Duration
	log        *logger.Logger
}

// Deps groups the collaborators of Service.
type Deps struct {
	Limiter   ratelimit.Limiter
	Validator *Validator
	Store     Store
	Bus       events.Bus
	Metrics   *metrics.IntakeMetrics
	// RetryAfter is reported to rejected clients; normally the limiter window.
	RetryAfter time.Duration
	Log        *logger.Logger
}

// New creates the intake service.
func New(deps Deps) *Service {
	if deps.Validator == nil {
		deps.Validator = NewValidator(nil)
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.RetryAfter <= 0 {
		deps.RetryAfter = time.Hour
	}
	return &Service{
		limiter:    deps.Limiter,
		validator:  deps.Validator,
		store:      deps.Store,
		bus:        deps.Bus,
		metrics:    deps.Metrics,
		retryAfter: deps.RetryAfter,
		log:        deps.Log,
	}
}

// Submit processes one contact-form body for clientID.
//
// Steps run strictly in order and each failure stops the pipeline:
// the quota is charged before the body is even parsed, and the response is
// decided by the store write alone. Notification is published afterwards and
// its outcome never reaches the caller.
func (s *Service) Submit(ctx context.Context, clientID string, body []byte) (Result, error) {
	log := s.log.WithContext(ctx)
	result := Result{RetryAfter: s.retryAfter}

	decision, err := s.limiter.Admit(ctx, clientID)
	if err != nil {
		log.Error("rate limiter failed, admitting request", "client_id", clientID, "error", err)
		decision = ratelimit.Decision{Allowed: true}
	}
	result.RateLimit = decision
	if !decision.Allowed {
		log.RateLimitExceeded(clientID, "leads.submit")
		s.metrics.ObserveSubmission(metrics.OutcomeRateLimited)
		return result, apperr.RateLimited(MsgRateLimited).WithOp("intake.Submit")
	}

	draft, err := s.validator.DecodeAndValidate(body)
	if err != nil {
		s.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return result, apperr.Validation(MsgInvalid).WithOp("intake.Submit").WithDetails(vErr.Violations)
		}
		return result, apperr.Wrap(apperr.KindInternal, MsgInternal, err).WithCode(apperr.CodeInternal)
	}

	start := time.Now()
	lead, err := s.store.Create(ctx, draft)
	s.metrics.ObservePersist(time.Since(start))
	if err != nil {
		log.DatabaseError("leads.create", err)
		s.metrics.ObserveSubmission(metrics.OutcomeStoreFailed)
		return result, apperr.Wrap(apperr.KindInternal, MsgInternal, err).
			WithOp("intake.Submit").
			WithCode(apperr.CodeInternal)
	}
	result.Lead = lead

	s.metrics.ObserveSubmission(metrics.OutcomeCreated)
	log.LeadCaptured(lead.ID.String(), lead.Source, decision.Remaining)

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{BaseEvent: events.NewBaseEvent(), Lead: lead})
	}

	return result, nil
}
