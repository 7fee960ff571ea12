package mailer

import (
	"context"
	"strings"
	"testing"

	"email-processor/logging"
	"email-processor/transport"
)

type countingSender struct {
	calls int
}

func (c *countingSender) Send(context.Context, transport.Message) (transport.Receipt, error) {
	c.calls++
	return transport.Receipt{ID: "email_1"}, nil
}

func newWelcome(sender *countingSender, builds *int) *welcome {
	return &welcome{
		from:       "team@example.com",
		productURL: "https://example.com",
		sender: func(context.Context) (transport.Sender, error) {
			*builds++
			return sender, nil
		},
		logger: logging.Discard(),
	}
}

func TestHandleUserCreationResultShapes(t *testing.T) {
	sender := &countingSender{}
	builds := 0
	w := newWelcome(sender, &builds)

	if got := w.HandleUserCreation(context.Background(), nil); got != (WelcomeResult{Status: StatusFailed, Error: "invalid_user_data"}) {
		t.Errorf("nil event: got %+v", got)
	}
	if got := w.HandleUserCreation(context.Background(), &UserCreationEvent{Email: "a@b.com"}); got != (WelcomeResult{Status: StatusNotUserCreation, Reason: "missing_user_fields"}) {
		t.Errorf("missing id: got %+v", got)
	}
	if sender.calls != 0 || builds != 0 {
		t.Error("transport must not be used for rejected events")
	}
}

func TestSendWelcomeWithoutEmailIsSkipped(t *testing.T) {
	sender := &countingSender{}
	builds := 0
	w := newWelcome(sender, &builds)

	got := w.Send(context.Background(), &UserCreationEvent{ID: "u1"})

	if got != (WelcomeResult{Status: StatusSkipped, Reason: "no_email"}) {
		t.Errorf("got %+v", got)
	}
	if sender.calls != 0 || builds != 0 {
		t.Error("transport must not be used when there is no email")
	}
}

func TestSendWelcomeFallsBackToUserID(t *testing.T) {
	sender := &countingSender{}
	builds := 0
	w := newWelcome(sender, &builds)

	got := w.Send(context.Background(), &UserCreationEvent{UserID: "legacy-7", Email: "a@b.com"})

	if got.Status != StatusSent || got.UserID != "legacy-7" {
		t.Errorf("got %+v", got)
	}
}

func TestDisplayName(t *testing.T) {
	w := &welcome{logger: logging.Discard()}
	tests := []struct {
		event UserCreationEvent
		want  string
	}{
		{UserCreationEvent{Name: "Ada", Email: "a@b.com"}, "Ada"},
		{UserCreationEvent{Email: "a@b.com"}, "a"},
		{UserCreationEvent{Email: "nodomain"}, "nodomain"},
		{UserCreationEvent{Email: "@b.com"}, "User"},
		{UserCreationEvent{}, "User"},
	}
	for _, tt := range tests {
		if got := w.displayName(context.Background(), "", &tt.event); got != tt.want {
			t.Errorf("displayName(%+v) = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestComposeWelcome(t *testing.T) {
	html, err := ComposeWelcome("Ada", "https://example.com/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"<h2>Welcome to Mermaid Live Editor, Ada!</h2>",
		`<a href="https://example.com/app">Mermaid Live Editor</a>`,
		"The Mermaid Live Editor Team",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}
}
