// Package transport delivers composed messages through an email provider.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"

	"email-processor/config"
)

// Message is a single outgoing email. At least one of HTML or Text is set.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Receipt is what the provider reported back for an accepted message.
// To, Subject and Status are empty when the provider does not echo them.
type Receipt struct {
	ID      string
	To      []string
	Subject string
	Status  string
}

// Sender sends one message. A non-nil error means the provider did not
// accept it.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Error is a provider-level failure.
type Error struct {
	Provider   string
	StatusCode int
	Name       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Factory builds the Sender for one invocation from that invocation's settings.
type Factory func(ctx context.Context, cfg config.Mail) (Sender, error)

// NewFactory returns a Factory sharing the process-wide HTTP and SES clients.
// The Resend sender is rebuilt per call since it carries the API key.
func NewFactory(awsCfg aws.Config, httpClient *http.Client) Factory {
	sesClient := ses.NewFromConfig(awsCfg)
	return func(_ context.Context, cfg config.Mail) (Sender, error) {
		switch cfg.Provider {
		case config.ProviderResend, "":
			return NewResend(cfg.APIKey, cfg.ResendBaseURL, httpClient), nil
		case config.ProviderSES:
			return NewSES(sesClient), nil
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
		}
	}
}
