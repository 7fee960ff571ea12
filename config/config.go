// Package config reads the function's settings from the environment.
//
// Mail settings are read on every invocation so a changed secret takes effect
// without a cold start. Runtime settings are read once when the process starts.
package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderResend = "resend"
	ProviderSES    = "ses"

	DefaultProductURL    = "https://mermaid-live-editor.appwrite.network"
	DefaultResendBaseURL = "https://api.resend.com"
	DefaultUsersTableKey = "userId"
	DefaultEventBusName  = "DDBStreamCustomEventBus"
	DefaultEventSource   = "users.directory"
	DefaultListenAddr    = ":8080"
	DefaultLogLevel      = "info"
)

var (
	ErrMissingAPIKey      = errors.New("missing RESEND_API_KEY environment variable")
	ErrMissingDefaultFrom = errors.New("missing RESEND_DEFAULT_FROM environment variable")
	ErrUnknownProvider    = errors.New("unknown MAIL_PROVIDER")
)

// Mail holds the settings needed to dispatch a single email.
type Mail struct {
	Provider      string
	APIKey        string
	DefaultFrom   string
	ProductURL    string
	ResendBaseURL string
}

// LoadMail reads the mail settings through getenv. The API key is checked
// before the default sender, and only when the provider needs one.
func LoadMail(getenv func(string) string) (Mail, error) {
	cfg := Mail{
		Provider:      strings.ToLower(getEnv(getenv, "MAIL_PROVIDER", ProviderResend)),
		APIKey:        getEnv(getenv, "RESEND_API_KEY", ""),
		DefaultFrom:   getEnv(getenv, "RESEND_DEFAULT_FROM", ""),
		ProductURL:    getEnv(getenv, "MERMAID_LIVE_URL", DefaultProductURL),
		ResendBaseURL: strings.TrimRight(getEnv(getenv, "RESEND_BASE_URL", DefaultResendBaseURL), "/"),
	}

	switch cfg.Provider {
	case ProviderResend:
		if cfg.APIKey == "" {
			return Mail{}, ErrMissingAPIKey
		}
	case ProviderSES:
	default:
		return Mail{}, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	if cfg.DefaultFrom == "" {
		return Mail{}, ErrMissingDefaultFrom
	}

	return cfg, nil
}

// PublicMessage maps a LoadMail error to the message returned to callers.
// Variable names stay in the logs.
func PublicMessage(err error) string {
	if errors.Is(err, ErrMissingDefaultFrom) {
		return "Default sender email not configured."
	}
	return "Email service is not configured."
}

// Runtime holds process-lifetime settings shared by the entry points.
type Runtime struct {
	LogLevel      string
	UsersTable    string
	UsersTableKey string
	EventBusName  string
	EventSource   string
	ListenAddr    string
}

func LoadRuntime(getenv func(string) string) Runtime {
	return Runtime{
		LogLevel:      getEnv(getenv, "LOG_LEVEL", DefaultLogLevel),
		UsersTable:    getEnv(getenv, "USERS_TABLE", ""),
		UsersTableKey: getEnv(getenv, "USERS_TABLE_KEY", DefaultUsersTableKey),
		EventBusName:  getEnv(getenv, "EVENT_BUS_NAME", DefaultEventBusName),
		EventSource:   getEnv(getenv, "STREAM_EVENT_SOURCE", DefaultEventSource),
		ListenAddr:    getEnv(getenv, "LISTEN_ADDR", DefaultListenAddr),
	}
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
