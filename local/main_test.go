package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"email-processor/config"
	"email-processor/logging"
	"email-processor/mailer"
	"email-processor/transport"
)

type stubSender struct{}

func (stubSender) Send(_ context.Context, msg transport.Message) (transport.Receipt, error) {
	return transport.Receipt{ID: "email_local"}, nil
}

func setupLocal(t *testing.T) *httptest.Server {
	t.Helper()
	env := map[string]string{
		"RESEND_API_KEY":      "re_test",
		"RESEND_DEFAULT_FROM": "team@example.com",
	}
	factory := func(context.Context, config.Mail) (transport.Sender, error) { return stubSender{}, nil }
	h := mailer.NewHandler(factory, logging.Discard(), mailer.WithGetenv(func(k string) string { return env[k] }))

	srv := httptest.NewServer(newRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocalPing(t *testing.T) {
	srv := setupLocal(t)

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Pong" {
		t.Errorf("expected Pong, got %d %q", resp.StatusCode, body)
	}
}

func TestLocalDirectSend(t *testing.T) {
	srv := setupLocal(t)

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"to":["a@b.com"],"subject":"Hi","text":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "email_local" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestLocalValidationError(t *testing.T) {
	srv := setupLocal(t)

	resp, err := http.Post(srv.URL+"/send", "application/json", strings.NewReader(`{"to":"a@b.com","subject":"Hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
