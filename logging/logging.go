// Package logging builds the structured loggers used by every entry point.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// New returns a JSON logger writing to stdout, which CloudWatch captures.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithInvocation tags logger with the invocation's request id. Outside Lambda
// there is no request id in ctx, so a random one is generated.
func WithInvocation(ctx context.Context, logger *slog.Logger) *slog.Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	logger = logger.With(slog.String("request_id", requestID))
	if lambdacontext.FunctionName != "" {
		logger = logger.With(slog.String("function", lambdacontext.FunctionName))
	}
	return logger
}

// RequestID returns the Lambda request id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
