package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"email-processor/bootstrap"
	"email-processor/config"
	"email-processor/logging"
	"email-processor/mailer"
)

// eventHandler feeds EventBridge user-created events to the mail dispatcher.
// The event detail is the user object itself.
type eventHandler struct {
	mailer *mailer.Handler
	logger *slog.Logger
}

// handle never returns an error for a failed send: the result is reported in
// the output and the event is not redelivered.
func (h *eventHandler) handle(ctx context.Context, event events.CloudWatchEvent) (json.RawMessage, error) {
	h.logger.Info("received event",
		"id", event.ID,
		"source", event.Source,
		"detail_type", event.DetailType,
	)

	resp := h.mailer.Handle(ctx, mailer.Request{Body: event.Detail})
	return json.RawMessage(resp.Body), nil
}

func main() {
	rt := config.LoadRuntime(os.Getenv)
	logger := logging.New(rt.LogLevel)

	m, err := bootstrap.Mailer(context.Background(), rt, logger)
	if err != nil {
		log.Fatalf("unable to initialize handler, %v", err)
	}

	h := &eventHandler{mailer: m, logger: logger}
	lambda.Start(h.handle)
}
