package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/platform/validator"
)

// fieldRule declares how one submission field is checked and copied into a Draft.
// Rules run in table order and each yields at most one violation.
type fieldRule struct {
	field    string
	required bool
	// tag is a go-playground constraint applied to the string value when present.
	tag string
	// messages maps a failed tag (or "required", "type", "format") to the user message.
	messages map[string]string
	// fallback is used when an optional field is absent.
	fallback string
	// assign copies the accepted value into the draft. A non-nil error becomes a
	// "format" violation.
	assign func(d *domain.Draft, v string) error
}

const (
	ruleRequired = "required"
	ruleType     = "type"
	ruleFormat   = "format"
	ruleSyntax   = "syntax"

	fieldBody = "body"

	msgNotString     = "Campo deve ser um texto"
	msgBodyNotJSON   = "Corpo da requisição deve ser um JSON válido"
	msgBodyNotObject = "Corpo da requisição deve ser um objeto JSON"
)

var leadRules = []fieldRule{
	{
		field:    "name",
		required: true,
		tag:      "min=2,max=100",
		messages: map[string]string{
			ruleRequired: "Nome é obrigatório",
			"min":        "Nome deve ter pelo menos 2 caracteres",
			"max":        "Nome deve ter no máximo 100 caracteres",
		},
		assign: func(d *domain.Draft, v string) error { d.Name = v; return nil },
	},
	{
		field:    "email",
		required: true,
		tag:      "email",
		messages: map[string]string{
			ruleRequired: "E-mail é obrigatório",
			"email":      "E-mail inválido",
		},
		assign: func(d *domain.Draft, v string) error { d.Email = v; return nil },
	},
	{
		field:  "phone",
		assign: func(d *domain.Draft, v string) error { d.Phone = &v; return nil },
	},
	{
		field:    "message",
		required: true,
		tag:      "min=10,max=1000",
		messages: map[string]string{
			ruleRequired: "Mensagem é obrigatória",
			"min":        "Mensagem deve ter pelo menos 10 caracteres",
			"max":        "Mensagem deve ter no máximo 1000 caracteres",
		},
		assign: func(d *domain.Draft, v string) error { d.Message = v; return nil },
	},
	{
		field:  "serviceType",
		assign: func(d *domain.Draft, v string) error { d.ServiceType = &v; return nil },
	},
	{
		field: "eventDate",
		messages: map[string]string{
			ruleFormat: "Data do evento inválida",
		},
		assign: func(d *domain.Draft, v string) error {
			t, err := parseEventDate(v)
			if err != nil {
				return err
			}
			d.EventDate = &t
			return nil
		},
	},
	{
		field:  "eventLocation",
		assign: func(d *domain.Draft, v string) error { d.EventLocation = &v; return nil },
	},
	{
		field:  "estimatedBudget",
		assign: func(d *domain.Draft, v string) error { d.EstimatedBudget = &v; return nil },
	},
	{
		field: "referenceFileUrl",
		tag:   "url",
		messages: map[string]string{
			"url": "URL do arquivo de referência inválida",
		},
		assign: func(d *domain.Draft, v string) error { d.ReferenceFileURL = &v; return nil },
	},
	{
		field:  "projectId",
		assign: func(d *domain.Draft, v string) error { d.ProjectID = &v; return nil },
	},
	{
		field:    "source",
		fallback: domain.DefaultSource,
		assign:   func(d *domain.Draft, v string) error { d.Source = v; return nil },
	},
}

// eventDateLayouts are tried in order. Date-only and zone-less values are read as UTC.
var eventDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseEventDate(v string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date")
}

// Validator turns an untrusted submission into a Draft or a list of violations.
// Values are copied verbatim; nothing is trimmed or escaped.
type Validator struct {
	val   *validator.Validator
	rules []fieldRule
}

// NewValidator creates a validator over the lead field rules.
func NewValidator(val *validator.Validator) *Validator {
	if val == nil {
		val = validator.New()
	}
	return &Validator{val: val, rules: leadRules}
}

// DecodeAndValidate parses body as JSON and validates the result. Malformed
// JSON is reported as a violation on the body rather than as a separate error.
func (v *Validator) DecodeAndValidate(body []byte) (domain.Draft, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil || dec.More() {
		return domain.Draft{}, &domain.ValidationError{Violations: []domain.Violation{
			{Field: fieldBody, Message: msgBodyNotJSON, Rule: ruleSyntax},
		}}
	}
	return v.Validate(raw)
}

// Validate checks an already decoded JSON value. Unknown fields are ignored.
// JSON null and "" count as absent for optional fields.
func (v *Validator) Validate(raw any) (domain.Draft, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Draft{}, &domain.ValidationError{Violations: []domain.Violation{
			{Field: fieldBody, Message: msgBodyNotObject, Rule: ruleType},
		}}
	}

	var (
		draft      domain.Draft
		violations []domain.Violation
	)
	for _, rule := range v.rules {
		if violation, failed := v.apply(rule, obj, &draft); failed {
			violations = append(violations, violation)
		}
	}

	if len(violations) > 0 {
		return domain.Draft{}, &domain.ValidationError{Violations: violations}
	}
	return draft, nil
}

func (v *Validator) apply(rule fieldRule, obj map[string]any, draft *domain.Draft) (domain.Violation, bool) {
	rawValue, present := obj[rule.field]
	if rawValue == nil {
		present = false
	}

	if !present {
		if rule.required {
			return rule.violation(ruleRequired), true
		}
		if rule.fallback != "" {
			_ = rule.assign(draft, rule.fallback)
		}
		return domain.Violation{}, false
	}

	value, ok := rawValue.(string)
	if !ok {
		return domain.Violation{Field: rule.field, Message: msgNotString, Rule: ruleType}, true
	}

	if value == "" && !rule.required {
		if rule.fallback != "" {
			_ = rule.assign(draft, rule.fallback)
		}
		return domain.Violation{}, false
	}

	if rule.tag != "" {
		if err := v.val.Var(value, rule.tag); err != nil {
			return rule.violation(validator.FailedTag(err)), true
		}
	}

	if err := rule.assign(draft, value); err != nil {
		return rule.violation(ruleFormat), true
	}
	return domain.Violation{}, false
}

func (r fieldRule) violation(tag string) domain.Violation {
	msg, ok := r.messages[tag]
	if !ok {
		msg = "Valor inválido"
	}
	if tag == "" {
		tag = ruleFormat
	}
	return domain.Violation{Field: r.field, Message: msg, Rule: tag}
}
