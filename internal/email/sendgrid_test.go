package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendGridSenderUsesAPI(t *testing.T) {
	var auth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("sg-key", Address{Name: "Estúdio", Email: "studio@example.com"})
	s.baseURL = srv.URL

	if err := s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Oi", HTML: "<p>Oi</p>"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer sg-key" {
		t.Fatalf("authorization = %q", auth)
	}
	if body["subject"] != "Oi" {
		t.Fatalf("subject = %v", body["subject"])
	}
}

func TestSendGridSenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSendGridSender("sg-key", Address{Email: "studio@example.com"})
	s.baseURL = srv.URL

	if err := s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Oi", HTML: "x"}); err == nil {
		t.Fatal("expected error for 403")
	}
}
