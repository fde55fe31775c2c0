package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type leadAlertEmailData struct {
	baseEmailData
	LeadID           string
	Name             string
	Email            string
	MailtoURL        string
	Phone            string
	PhoneURL         template.URL
	ServiceType      string
	EventDate        string
	EventLocation    string
	EstimatedBudget  string
	Message          string
	ReferenceFileURL string
	Source           string
	ReceivedAt       string
}

type leadConfirmationEmailData struct {
	baseEmailData
	Name              string
	PortfolioURL      string
	PhotographerName  string
	PhotographerEmail string
	PhotographerPhone string
}

const (
	templateLeadAlert        = "lead_alert.html"
	templateLeadConfirmation = "lead_confirmation.html"
)

var emailTemplates = mustParseTemplates(templateLeadAlert, templateLeadConfirmation)

func mustParseTemplates(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name))
	}
	return out
}

// renderEmailTemplate executes a body template inside base.html. All values are
// HTML-escaped by html/template; URLs are additionally filtered by scheme.
func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
