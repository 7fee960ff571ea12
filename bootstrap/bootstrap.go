// Package bootstrap wires the dispatcher with its process-lifetime clients.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"email-processor/config"
	"email-processor/directory"
	"email-processor/mailer"
	"email-processor/transport"
)

// Mailer builds the dispatcher used by the HTTP, event and local entry points.
// The users table lookup is only enabled when USERS_TABLE is set.
func Mailer(ctx context.Context, rt config.Runtime, logger *slog.Logger) (*mailer.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	var opts []mailer.Option
	if rt.UsersTable != "" {
		users := directory.New(dynamodb.NewFromConfig(awsCfg), rt.UsersTable, rt.UsersTableKey)
		opts = append(opts, mailer.WithNameResolver(users))
		logger.Info("user directory lookups enabled", "table", rt.UsersTable)
	}

	return mailer.NewHandler(transport.NewFactory(awsCfg, http.DefaultClient), logger, opts...), nil
}
