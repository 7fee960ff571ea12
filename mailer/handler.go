// Package mailer routes one function invocation to either the welcome email
// flow (user creation events) or a direct transactional send.
package mailer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"email-processor/config"
	"email-processor/logging"
	"email-processor/transport"
)

const PingPath = "/ping"

// Handler is safe for concurrent use. It keeps no state between invocations;
// configuration is read and the sender built on every call.
type Handler struct {
	senders transport.Factory
	names   NameResolver
	getenv  func(string) string
	logger  *slog.Logger
}

type Option func(*Handler)

// WithNameResolver enables display name lookups for events without a name.
func WithNameResolver(names NameResolver) Option {
	return func(h *Handler) { h.names = names }
}

// WithGetenv replaces os.Getenv as the configuration source.
func WithGetenv(getenv func(string) string) Option {
	return func(h *Handler) { h.getenv = getenv }
}

func NewHandler(senders transport.Factory, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		senders: senders,
		getenv:  os.Getenv,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle serves one invocation.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	if req.Path == PingPath {
		return Text(http.StatusOK, "Pong")
	}

	logger := logging.WithInvocation(ctx, h.logger)

	cfg, err := config.LoadMail(h.getenv)
	if err != nil {
		logger.Error("email service is not configured", "error", err)
		return JSON(http.StatusInternalServerError, errorBody{Error: config.PublicMessage(err)})
	}

	payload := LoadPayload(req.Body, req.BodyRaw, logger)
	senderFor := func(ctx context.Context) (transport.Sender, error) {
		return h.senders(ctx, cfg)
	}

	switch p := Decode(payload).(type) {
	case *UserCreationEvent:
		logger.Info("detected user creation event")
		w := &welcome{
			from:       cfg.DefaultFrom,
			productURL: cfg.ProductURL,
			sender:     senderFor,
			names:      h.names,
			logger:     logger,
		}
		result := w.HandleUserCreation(ctx, p)
		logger.Info("event processing result", "result", result)
		return JSON(http.StatusOK, result)
	case *DirectSendRequest:
		return h.directSend(ctx, logger, cfg, senderFor, p)
	default:
		return JSON(http.StatusBadRequest, errorBody{Error: "Unsupported payload."})
	}
}

func (h *Handler) directSend(ctx context.Context, logger *slog.Logger, cfg config.Mail, senderFor func(context.Context) (transport.Sender, error), req *DirectSendRequest) Response {
	msg, err := ValidateDirectSend(req, cfg.DefaultFrom)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Info("rejected direct send request", "error", verr.Message)
			return JSON(http.StatusBadRequest, errorBody{Error: verr.Message, Details: verr.Details})
		}
		return JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	sender, err := senderFor(ctx)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		return JSON(http.StatusInternalServerError, errorBody{Error: "Email service is not configured."})
	}

	receipt, err := sender.Send(ctx, msg)
	if err != nil {
		logger.Error("failed to send email", "error", err)
		return JSON(http.StatusBadGateway, errorBody{Error: "Failed to send email."})
	}

	logger.Info("email sent", "id", receipt.ID, "recipients", len(msg.To))
	return JSON(http.StatusOK, directSendResult(msg, receipt))
}
