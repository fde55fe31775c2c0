package scheduler

import (
	"context"
	"errors"
	"fmt"

	"photo_portal_backend/internal/leads"
	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/platform/config"
	"photo_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LeadNotifier delivers the emails for one stored lead.
type LeadNotifier interface {
	NotifyStrict(ctx context.Context, lead domain.Lead) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	leads    leads.Reader
	notifier LeadNotifier
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reader leads.Reader, notifier LeadNotifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(reader, notifier, log)
	w.server = server
	return w, nil
}

func newWorker(reader leads.Reader, notifier LeadNotifier, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Discard()
	}
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:      mux,
		leads:    reader,
		notifier: notifier,
		log:      log,
	}
	mux.HandleFunc(TaskLeadNotify, w.handleLeadNotify)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadNotifyPayload(task)
	if err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TaskLeadNotify, err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("invalid lead id %q: %w", payload.LeadID, asynq.SkipRetry)
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if errors.Is(err, domain.ErrNotFound) {
		w.log.Warn("lead for notification task not found", "lead_id", payload.LeadID)
		return nil
	}
	if err != nil {
		return err
	}

	// Failures are already logged and counted per email by the notifier.
	return w.notifier.NotifyStrict(ctx, lead)
}
