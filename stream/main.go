package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/eventbridge"
	"github.com/aws/aws-sdk-go/service/eventbridge/eventbridgeiface"

	"email-processor/config"
	"email-processor/logging"
)

const (
	userCreatedDetailType = "UserCreated"
	// PutEvents accepts at most 10 entries per call.
	maxEntriesPerPut = 10
)

// userCreated is the event detail consumed by the email function.
type userCreated struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type EventBridgeClient struct {
	client  eventbridgeiface.EventBridgeAPI
	busName string
	source  string
}

// PutUserEvents publishes one UserCreated event per user.
func (e *EventBridgeClient) PutUserEvents(ctx context.Context, users []userCreated) error {
	entries := make([]*eventbridge.PutEventsRequestEntry, 0, len(users))
	for _, u := range users {
		detail, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to marshal event detail for %s: %w", u.ID, err)
		}
		entries = append(entries, &eventbridge.PutEventsRequestEntry{
			Source:       aws.String(e.source),
			DetailType:   aws.String(userCreatedDetailType),
			Detail:       aws.String(string(detail)),
			EventBusName: aws.String(e.busName),
		})
	}

	for start := 0; start < len(entries); start += maxEntriesPerPut {
		end := min(start+maxEntriesPerPut, len(entries))
		out, err := e.client.PutEventsWithContext(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			return fmt.Errorf("error sending events to EventBridge: %w", err)
		}
		if failed := aws.Int64Value(out.FailedEntryCount); failed > 0 {
			return fmt.Errorf("EventBridge rejected %d of %d events", failed, end-start)
		}
	}
	return nil
}

type streamHandler struct {
	publisher *EventBridgeClient
	keyName   string
	logger    *slog.Logger
}

// handle returns an error when publishing fails so the stream batch is retried
// by the event source mapping.
func (h *streamHandler) handle(ctx context.Context, dynamodbEvent events.DynamoDBEvent) error {
	logger := logging.WithInvocation(ctx, h.logger)

	var users []userCreated
	for _, record := range dynamodbEvent.Records {
		if record.EventName != string(events.DynamoDBOperationTypeInsert) {
			continue
		}
		user, ok := userFromImage(record.Change.NewImage, h.keyName)
		if !ok {
			logger.Info("skipping record without user id or email", "event_id", record.EventID)
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		logger.Debug("no new users in batch", "records", len(dynamodbEvent.Records))
		return nil
	}

	if err := h.publisher.PutUserEvents(ctx, users); err != nil {
		logger.Error("failed to publish user events", "error", err)
		return err
	}

	logger.Info("published user events", "count", len(users))
	return nil
}

func userFromImage(image map[string]events.DynamoDBAttributeValue, keyName string) (userCreated, bool) {
	user := userCreated{
		ID:    stringAttr(image, keyName),
		Email: stringAttr(image, "email"),
		Name:  stringAttr(image, "name"),
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(stringAttr(image, "firstName") + " " + stringAttr(image, "lastName"))
	}
	return user, user.ID != "" && user.Email != ""
}

func stringAttr(image map[string]events.DynamoDBAttributeValue, name string) string {
	v, ok := image[name]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func main() {
	rt := config.LoadRuntime(os.Getenv)
	logger := logging.New(rt.LogLevel)

	sess, err := session.NewSession()
	if err != nil {
		log.Fatalf("unable to create AWS session, %v", err)
	}

	h := &streamHandler{
		publisher: &EventBridgeClient{
			client:  eventbridge.New(sess),
			busName: rt.EventBusName,
			source:  rt.EventSource,
		},
		keyName:   rt.UsersTableKey,
		logger:    logger,
	}

	logger.Info("starting stream function", "event_bus", rt.EventBusName)
	lambda.Start(h.handle)
}
