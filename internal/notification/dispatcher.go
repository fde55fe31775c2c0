package notification

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"photo_portal_backend/internal/email"
	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/internal/observability/metrics"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/phone"
	"photo_portal_backend/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

const (
	subjectLeadAlertFmt        = "🎯 Novo Lead: %s"
	subjectLeadConfirmationFmt = "Recebemos seu contato, %s!"

	defaultPhotographerName = "Fotógrafo"
	maxSubjectRunes         = 200
	maxNameRunes            = 100

	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"
)

// Branding is the studio information rendered into both emails.
type Branding struct {
	SiteURL           string
	PhotographerName  string
	PhotographerEmail string
	PhotographerPhone string
	// OperatorEmail receives the lead alert.
	OperatorEmail string
	// Location formats the received-at timestamp.
	Location *time.Location
}

// Dispatcher sends the operator alert and the visitor confirmation for a lead.
type Dispatcher struct {
	sender   email.Sender
	branding Branding
	timeout  time.Duration
	metrics  *metrics.NotificationMetrics
	log      *logger.Logger
	now      func() time.Time
}

func NewDispatcher(sender email.Sender, branding Branding, timeout time.Duration, m *metrics.NotificationMetrics, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if branding.Location == nil {
		branding.Location = time.UTC
	}
	if branding.PhotographerName == "" {
		branding.PhotographerName = defaultPhotographerName
	}
	return &Dispatcher{
		sender:   sender,
		branding: branding,
		timeout:  timeout,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Notify sends both emails concurrently. Each one has its own timeout and its
// failure is logged without affecting the other. Notify never panics and
// returns nothing: the lead is already stored and the response already decided.
func (d *Dispatcher) Notify(ctx context.Context, lead domain.Lead) {
	_ = d.notify(ctx, lead)
}

// notify returns the joined NotificationErrors for tests and the queue worker.
func (d *Dispatcher) notify(ctx context.Context, lead domain.Lead) error {
	var (
		g        errgroup.Group
		alertErr error
		confErr  error
	)
	g.Go(func() error {
		alertErr = d.deliver(ctx, KindOperatorAlert, lead, d.operatorAlert)
		return nil
	})
	g.Go(func() error {
		confErr = d.deliver(ctx, KindVisitorConfirmation, lead, d.visitorConfirmation)
		return nil
	})
	_ = g.Wait()

	return errors.Join(alertErr, confErr)
}

// NotifyStrict is Notify for callers that record the outcome, such as the queue worker.
func (d *Dispatcher) NotifyStrict(ctx context.Context, lead domain.Lead) error {
	return d.notify(ctx, lead)
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, lead domain.Lead, build func(domain.Lead) (email.Message, error)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &NotificationError{Kind: kind, LeadID: lead.ID, Err: err}
			d.log.WithContext(ctx).NotificationFailed(kind, lead.ID.String(), err)
		}
		d.metrics.ObserveSend(kind, err)
	}()

	msg, err := build(lead)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.sender.Send(sendCtx, msg)
}

func (d *Dispatcher) operatorAlert(lead domain.Lead) (email.Message, error) {
	data := leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:      "Novo Lead Recebido!",
			Heading:    "Novo Lead Recebido!",
			Subheading: "Um potencial cliente entrou em contato",
		},
		LeadID:           lead.ID.String(),
		Name:             lead.Name,
		Email:            lead.Email,
		MailtoURL:        "mailto:" + lead.Email,
		Phone:            deref(lead.Phone),
		ServiceType:      deref(lead.ServiceType),
		EventLocation:    deref(lead.EventLocation),
		EstimatedBudget:  deref(lead.EstimatedBudget),
		Message:          lead.Message,
		ReferenceFileURL: deref(lead.ReferenceFileURL),
		Source:           lead.Source,
		ReceivedAt:       d.now().In(d.branding.Location).Format(dateTimeLayout),
	}
	if lead.Phone != nil {
		// TelURI only emits tel:+<digits>.
		data.PhoneURL = template.URL(phone.TelURI(*lead.Phone))
	}
	if lead.EventDate != nil {
		// Event dates are calendar dates stored at UTC midnight.
		data.EventDate = lead.EventDate.UTC().Format(dateLayout)
	}

	html, err := renderEmailTemplate(templateLeadAlert, data)
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		To:      d.branding.OperatorEmail,
		ReplyTo: lead.Email,
		Subject: sanitize.HeaderLine(fmt.Sprintf(subjectLeadAlertFmt, lead.Name), maxSubjectRunes),
		HTML:    html,
	}, nil
}

func (d *Dispatcher) visitorConfirmation(lead domain.Lead) (email.Message, error) {
	html, err := renderEmailTemplate(templateLeadConfirmation, leadConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Obrigado pelo contato!",
			Heading: "Obrigado pelo contato!",
		},
		Name:              lead.Name,
		PortfolioURL:      d.branding.SiteURL + "/portfolio",
		PhotographerName:  d.branding.PhotographerName,
		PhotographerEmail: d.branding.PhotographerEmail,
		PhotographerPhone: d.branding.PhotographerPhone,
	})
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		To:      lead.Email,
		ToName:  sanitize.HeaderLine(lead.Name, maxNameRunes),
		Subject: sanitize.HeaderLine(fmt.Sprintf(subjectLeadConfirmationFmt, lead.Name), maxSubjectRunes),
		HTML:    html,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
