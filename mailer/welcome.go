package mailer

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strings"

	"email-processor/transport"
)

// Welcome result statuses.
const (
	StatusSent            = "sent"
	StatusSkipped         = "skipped"
	StatusFailed          = "failed"
	StatusNotUserCreation = "not_user_creation"
)

const (
	WelcomeSubject     = "Welcome to Mermaid Live Editor!"
	defaultDisplayName = "User"
)

// WelcomeResult is the outcome of handling a user creation event.
type WelcomeResult struct {
	Status    string `json:"status"`
	ID        string `json:"id,omitempty"`
	To        string `json:"to,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NameResolver finds a display name for a user id. It returns "" when it
// has none.
type NameResolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body>
    <h2>Welcome to Mermaid Live Editor, {{.Name}}!</h2>
    <p>Thank you for joining our community. You can now:</p>
    <ul>
        <li>Create beautiful diagrams with Mermaid syntax</li>
        <li>Share your diagrams with others</li>
        <li>Export your work in various formats</li>
    </ul>
    <p>Get started by visiting the <a href="{{.URL}}">Mermaid Live Editor</a>.</p>
    <p>Happy diagramming!</p>
    <br>
    <p>Best regards,<br>The Mermaid Live Editor Team</p>
</body>
</html>
`))

// ComposeWelcome renders the welcome email body for name, linking to productURL.
func ComposeWelcome(name, productURL string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name string
		URL  string
	}{Name: name, URL: productURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// welcome holds what one invocation needs to send a welcome email.
type welcome struct {
	from       string
	productURL string
	sender     func(ctx context.Context) (transport.Sender, error)
	names      NameResolver
	logger     *slog.Logger
}

// HandleUserCreation checks that event looks like a user object before
// sending the welcome email.
func (w *welcome) HandleUserCreation(ctx context.Context, event *UserCreationEvent) WelcomeResult {
	if event == nil {
		w.logger.Info("invalid or missing user data")
		return WelcomeResult{Status: StatusFailed, Error: "invalid_user_data"}
	}
	if event.ID == "" || event.Email == "" {
		w.logger.Info("payload does not appear to be a user object (missing $id or email)")
		return WelcomeResult{Status: StatusNotUserCreation, Reason: "missing_user_fields"}
	}
	return w.Send(ctx, event)
}

// Send composes and sends the welcome email for event.
func (w *welcome) Send(ctx context.Context, event *UserCreationEvent) WelcomeResult {
	userID := event.ID
	if userID == "" {
		userID = event.UserID
	}

	if event.Email == "" {
		w.logger.Info("user created without email, skipping welcome email", "user_id", userID)
		return WelcomeResult{Status: StatusSkipped, Reason: "no_email"}
	}

	name := w.displayName(ctx, userID, event)
	w.logger.Info("preparing welcome email", "user_email", event.Email, "user_id", userID)

	html, err := ComposeWelcome(name, w.productURL)
	if err != nil {
		w.logger.Error("failed to render welcome email", "user_email", event.Email, "error", err)
		return WelcomeResult{Status: StatusFailed, Error: err.Error(), UserEmail: event.Email}
	}

	sender, err := w.sender(ctx)
	if err != nil {
		w.logger.Error("failed to build email sender", "error", err)
		return WelcomeResult{Status: StatusFailed, Error: err.Error(), UserEmail: event.Email}
	}

	receipt, err := sender.Send(ctx, transport.Message{
		From:    w.from,
		To:      []string{event.Email},
		Subject: WelcomeSubject,
		HTML:    html,
	})
	if err != nil {
		w.logger.Error("failed to send welcome email", "user_email", event.Email, "error", err)
		return WelcomeResult{Status: StatusFailed, Error: err.Error(), UserEmail: event.Email}
	}

	w.logger.Info("welcome email sent", "user_email", event.Email, "id", receipt.ID)
	return WelcomeResult{Status: StatusSent, ID: receipt.ID, To: event.Email, UserID: userID}
}

func (w *welcome) displayName(ctx context.Context, userID string, event *UserCreationEvent) string {
	if event.Name != "" {
		return event.Name
	}

	if w.names != nil && userID != "" {
		name, err := w.names.DisplayName(ctx, userID)
		if err != nil {
			w.logger.Warn("user directory lookup failed", "user_id", userID, "error", err)
		} else if name != "" {
			return name
		}
	}

	if local, _, _ := strings.Cut(event.Email, "@"); local != "" {
		return local
	}
	return defaultDisplayName
}
