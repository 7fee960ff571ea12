package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"email-processor/bootstrap"
	"email-processor/config"
	"email-processor/logging"
	"email-processor/mailer"
)

// api adapts API Gateway proxy requests to the mail dispatcher.
type api struct {
	mailer *mailer.Handler
}

func (a *api) handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := request.Body
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			log.Printf("Failed to decode base64 request body: %v", err)
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "Invalid base64 body"}, nil
		}
		body = string(decoded)
	}

	resp := a.mailer.Handle(ctx, mailer.Request{
		Path:    request.Path,
		Body:    body,
		BodyRaw: body,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": resp.ContentType},
		Body:       string(resp.Body),
	}, nil
}

func main() {
	rt := config.LoadRuntime(os.Getenv)
	logger := logging.New(rt.LogLevel)

	h, err := bootstrap.Mailer(context.Background(), rt, logger)
	if err != nil {
		log.Fatalf("unable to initialize handler, %v", err)
	}

	a := &api{mailer: h}
	lambda.Start(a.handler)
}
