package intake

import (
	"errors"
	"strings"
	"testing"
	"time"

	"photo_portal_backend/internal/leads/domain"
)

func violationsOf(t *testing.T, err error) []domain.Violation {
	t.Helper()
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.Violations
}

func TestValidateAcceptsMinimalSubmission(t *testing.T) {
	v := NewValidator(nil)
	draft, err := v.DecodeAndValidate([]byte(`{"name":"Ana","email":"ana@example.com","message":"Quero um ensaio de casal"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if draft.Name != "Ana" || draft.Email != "ana@example.com" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if draft.Source != domain.DefaultSource {
		t.Fatalf("source = %q, want default", draft.Source)
	}
	if draft.Phone != nil || draft.EventDate != nil || draft.ProjectID != nil {
		t.Fatalf("expected optional fields to stay empty: %+v", draft)
	}
}

func TestValidateCopiesOptionalFieldsVerbatim(t *testing.T) {
	v := NewValidator(nil)
	body := `{
		"name":"  Ana <b>",
		"email":"ana@example.com",
		"phone":"(11) 99999-9999",
		"message":"Quero um ensaio de casal",
		"serviceType":"casamento",
		"eventDate":"2024-12-10",
		"eventLocation":"Praia",
		"estimatedBudget":"R$ 5.000",
		"referenceFileUrl":"https://cdn.example.com/ref.jpg",
		"projectId":"proj-1",
		"source":"pagina-projeto",
		"unknown":"ignored"
	}`
	draft, err := v.DecodeAndValidate([]byte(body))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if draft.Name != "  Ana <b>" {
		t.Fatalf("name was altered: %q", draft.Name)
	}
	if draft.EventDate == nil || !draft.EventDate.Equal(time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("event date = %v", draft.EventDate)
	}
	if draft.Source != "pagina-projeto" || *draft.ProjectID != "proj-1" || *draft.Phone != "(11) 99999-9999" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestValidateReportsEveryViolationInOrder(t *testing.T) {
	v := NewValidator(nil)
	_, err := v.DecodeAndValidate([]byte(`{"name":"A","email":"invalid","message":"curta"}`))
	got := violationsOf(t, err)

	want := []domain.Violation{
		{Field: "name", Message: "Nome deve ter pelo menos 2 caracteres", Rule: "min"},
		{Field: "email", Message: "E-mail inválido", Rule: "email"},
		{Field: "message", Message: "Mensagem deve ter pelo menos 10 caracteres", Rule: "min"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d violations: %+v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("violation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestValidateBoundaries(t *testing.T) {
	v := NewValidator(nil)
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"name two chars", `{"name":"Al","email":"a@b.co","message":"0123456789"}`, false},
		{"name too long", `{"name":"` + strings.Repeat("a", 101) + `","email":"a@b.co","message":"0123456789"}`, true},
		{"name multibyte", `{"name":"Zé","email":"a@b.co","message":"0123456789"}`, false},
		{"message nine chars", `{"name":"Ana","email":"a@b.co","message":"012345678"}`, true},
		{"message max", `{"name":"Ana","email":"a@b.co","message":"` + strings.Repeat("m", 1000) + `"}`, false},
		{"message too long", `{"name":"Ana","email":"a@b.co","message":"` + strings.Repeat("m", 1001) + `"}`, true},
		{"bad reference url", `{"name":"Ana","email":"a@b.co","message":"0123456789","referenceFileUrl":"not a url"}`, true},
		{"bad event date", `{"name":"Ana","email":"a@b.co","message":"0123456789","eventDate":"amanhã"}`, true},
		{"event date with time", `{"name":"Ana","email":"a@b.co","message":"0123456789","eventDate":"2024-12-10T15:00:00Z"}`, false},
		{"null optional", `{"name":"Ana","email":"a@b.co","message":"0123456789","phone":null}`, false},
		{"empty optional", `{"name":"Ana","email":"a@b.co","message":"0123456789","phone":""}`, false},
		{"non string", `{"name":"Ana","email":"a@b.co","message":"0123456789","phone":11999}`, true},
		{"missing email", `{"name":"Ana","message":"0123456789"}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.DecodeAndValidate([]byte(tc.body))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateEmptySourceFallsBack(t *testing.T) {
	v := NewValidator(nil)
	draft, err := v.DecodeAndValidate([]byte(`{"name":"Ana","email":"a@b.co","message":"0123456789","source":""}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if draft.Source != domain.DefaultSource {
		t.Fatalf("source = %q", draft.Source)
	}
}

func TestValidateRejectsMalformedBody(t *testing.T) {
	v := NewValidator(nil)
	for _, body := range []string{`{"name":`, `[]`, `"text"`, `{} {}`} {
		_, err := v.DecodeAndValidate([]byte(body))
		got := violationsOf(t, err)
		if len(got) != 1 || got[0].Field != "body" {
			t.Fatalf("body %q: unexpected violations %+v", body, got)
		}
	}
}
