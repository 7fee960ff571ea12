package mailer

// Payload is the decoded interpretation of a request body: either a
// *UserCreationEvent or a *DirectSendRequest.
type Payload interface {
	isPayload()
}

// UserCreationEvent is a user object delivered by the user-created trigger.
type UserCreationEvent struct {
	ID     string
	UserID string
	Email  string
	Name   string
}

// DirectSendRequest is an explicit send request. To keeps its raw JSON value
// because its shape is checked during validation.
type DirectSendRequest struct {
	From    string
	To      any
	Subject string
	HTML    string
	Text    string
}

func (*UserCreationEvent) isPayload() {}
func (*DirectSendRequest) isPayload() {}

// Decode classifies payload. A payload with both a non-empty "$id" and a
// non-empty "email" is a user creation event; anything else is a direct send.
func Decode(payload map[string]any) Payload {
	if truthy(payload["$id"]) && truthy(payload["email"]) {
		return &UserCreationEvent{
			ID:     text(payload["$id"]),
			UserID: text(payload["userId"]),
			Email:  text(payload["email"]),
			Name:   text(payload["name"]),
		}
	}

	return &DirectSendRequest{
		From:    presentText(payload["from"]),
		To:      payload["to"],
		Subject: presentText(payload["subject"]),
		HTML:    presentText(payload["html"]),
		Text:    presentText(payload["text"]),
	}
}

func presentText(v any) string {
	if !truthy(v) {
		return ""
	}
	return text(v)
}
