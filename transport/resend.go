package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"email-processor/config"
)

const maxResponseBytes = 1 << 20

// Resend sends email through the Resend HTTP API.
type Resend struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// resendResponse covers both the success body ({"id": ...}) and the error
// body ({"statusCode", "message", "name"}).
type resendResponse struct {
	ID         string `json:"id"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

func NewResend(apiKey, baseURL string, httpClient *http.Client) *Resend {
	if baseURL == "" {
		baseURL = config.DefaultResendBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Resend{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// Send posts msg to /emails.
func (r *Resend) Send(ctx context.Context, msg Message) (Receipt, error) {
	reqBody, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(reqBody))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Receipt{}, &Error{Provider: "resend", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Receipt{}, &Error{Provider: "resend", StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	var parsed resendResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode >= 400 {
		apiErr := &Error{Provider: "resend", StatusCode: resp.StatusCode, Name: parsed.Name, Message: parsed.Message}
		if apiErr.Message == "" {
			apiErr.Message = parsed.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return Receipt{}, apiErr
	}
	if decodeErr != nil {
		return Receipt{}, &Error{Provider: "resend", StatusCode: resp.StatusCode, Message: "failed to decode response", Err: decodeErr}
	}

	return Receipt{ID: parsed.ID}, nil
}
