package mailer

import (
	"encoding/json"
	"net/http"
)

// Request is one inbound invocation as seen by the dispatcher. Body may be a
// pre-parsed map or a raw string; BodyRaw is the unparsed body when the host
// provides one.
type Request struct {
	Path    string
	Body    any
	BodyRaw string
}

// Response is what the host should send back.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError, "failed to encode response")
	}
	return Response{StatusCode: status, ContentType: contentTypeJSON, Body: body}
}

func Text(status int, s string) Response {
	return Response{StatusCode: status, ContentType: contentTypeText, Body: []byte(s)}
}

type errorBody struct {
	Error   string             `json:"error"`
	Details *ValidationDetails `json:"details,omitempty"`
}
