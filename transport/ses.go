package transport

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SES sends email through Amazon SES. Credentials come from the AWS default
// chain, so there is no API key.
type SES struct {
	client SESAPI
}

func NewSES(client SESAPI) *SES {
	return &SES{client: client}
}

func (s *SES) Send(ctx context.Context, msg Message) (Receipt, error) {
	body := &types.Body{}
	if msg.Text != "" {
		body.Text = utf8Content(msg.Text)
	}
	if msg.HTML != "" {
		body.Html = utf8Content(msg.HTML)
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: utf8Content(msg.Subject),
			Body:    body,
		},
	})
	if err != nil {
		return Receipt{}, &Error{Provider: "ses", Err: err}
	}

	return Receipt{ID: aws.ToString(out.MessageId)}, nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String("UTF-8"),
	}
}
