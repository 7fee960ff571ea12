package transport_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"

	"email-processor/config"
	"email-processor/transport"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
}

func TestSESSend(t *testing.T) {
	client := &fakeSES{}
	sender := transport.NewSES(client)

	receipt, err := sender.Send(context.Background(), transport.Message{
		From:    "sender@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Hi",
		HTML:    "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID != "ses-msg-1" {
		t.Errorf("expected id=ses-msg-1, got %q", receipt.ID)
	}

	in := client.input
	if aws.ToString(in.Source) != "sender@example.com" {
		t.Errorf("unexpected source %q", aws.ToString(in.Source))
	}
	if len(in.Destination.ToAddresses) != 2 {
		t.Errorf("expected 2 recipients, got %v", in.Destination.ToAddresses)
	}
	if aws.ToString(in.Message.Subject.Data) != "Hi" || aws.ToString(in.Message.Subject.Charset) != "UTF-8" {
		t.Errorf("unexpected subject %+v", in.Message.Subject)
	}
	if in.Message.Body.Html == nil || aws.ToString(in.Message.Body.Html.Data) != "<p>Hi</p>" {
		t.Errorf("expected html body, got %+v", in.Message.Body.Html)
	}
	if in.Message.Body.Text != nil {
		t.Errorf("expected no text body, got %+v", in.Message.Body.Text)
	}
}

func TestSESSendError(t *testing.T) {
	cause := errors.New("MessageRejected: Email address is not verified")
	sender := transport.NewSES(&fakeSES{err: cause})

	_, err := sender.Send(context.Background(), transport.Message{From: "a@example.com", To: []string{"b@example.com"}, Subject: "x", Text: "y"})

	var apiErr *transport.Error
	if !errors.As(err, &apiErr) || apiErr.Provider != "ses" {
		t.Fatalf("expected ses *transport.Error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the SDK error to be wrapped")
	}
}

func TestFactory(t *testing.T) {
	factory := transport.NewFactory(aws.Config{Region: "us-east-1"}, http.DefaultClient)

	sender, err := factory(context.Background(), config.Mail{Provider: config.ProviderResend, APIKey: "re_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*transport.Resend); !ok {
		t.Errorf("expected *transport.Resend, got %T", sender)
	}

	sender, err = factory(context.Background(), config.Mail{Provider: config.ProviderSES})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*transport.SES); !ok {
		t.Errorf("expected *transport.SES, got %T", sender)
	}

	if _, err := factory(context.Background(), config.Mail{Provider: "smtp"}); !errors.Is(err, config.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
