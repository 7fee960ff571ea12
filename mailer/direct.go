package mailer

import (
	"email-processor/transport"
)

var requiredFields = []string{"from", "to", "subject"}

// ValidationDetails lists the required fields and the ones that were missing.
type ValidationDetails struct {
	Required []string `json:"required"`
	Missing  []string `json:"missing"`
}

// ValidationError is a direct send request the dispatcher refuses to send.
type ValidationError struct {
	Message string
	Details *ValidationDetails
}

func (e *ValidationError) Error() string { return e.Message }

var (
	errRecipientsType = &ValidationError{Message: "Field 'to' must be a string or a list of strings."}
	errNoContent      = &ValidationError{Message: "Provide either 'html' or 'text' content for the email."}
)

// DirectSendResult is the response for an accepted direct send. Status is nil
// when the provider did not report one.
type DirectSendResult struct {
	ID      string   `json:"id"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Status  *string  `json:"status"`
}

// ValidateDirectSend resolves req into a message. Missing required fields are
// reported together, in from, to, subject order, before the recipient shape
// and the body content are checked.
func ValidateDirectSend(req *DirectSendRequest, defaultFrom string) (transport.Message, error) {
	sender := req.From
	if sender == "" {
		sender = defaultFrom
	}

	var missing []string
	if sender == "" {
		missing = append(missing, "from")
	}
	if !truthy(req.To) {
		missing = append(missing, "to")
	}
	if req.Subject == "" {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return transport.Message{}, &ValidationError{
			Message: "Missing required fields.",
			Details: &ValidationDetails{
				Required: append([]string(nil), requiredFields...),
				Missing:  missing,
			},
		}
	}

	recipients, ok := normalizeRecipients(req.To)
	if !ok {
		return transport.Message{}, errRecipientsType
	}

	if req.HTML == "" && req.Text == "" {
		return transport.Message{}, errNoContent
	}

	return transport.Message{
		From:    sender,
		To:      recipients,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	}, nil
}

func normalizeRecipients(to any) ([]string, bool) {
	switch v := to.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		recipients := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			recipients = append(recipients, s)
		}
		return recipients, true
	default:
		return nil, false
	}
}

func directSendResult(msg transport.Message, receipt transport.Receipt) DirectSendResult {
	result := DirectSendResult{ID: receipt.ID, To: receipt.To, Subject: receipt.Subject}
	if len(result.To) == 0 {
		result.To = msg.To
	}
	if result.Subject == "" {
		result.Subject = msg.Subject
	}
	if receipt.Status != "" {
		status := receipt.Status
		result.Status = &status
	}
	return result
}
