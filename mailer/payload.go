package mailer

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// LoadPayload turns a request body into a JSON object. The primary body wins
// when it yields a non-empty object; otherwise the raw body is tried. Bodies
// that are not JSON objects are logged and ignored, so the result is never nil.
func LoadPayload(body, raw any, logger *slog.Logger) map[string]any {
	if payload := asObject(body, logger); len(payload) > 0 {
		return payload
	}
	if payload := asObject(raw, logger); payload != nil {
		return payload
	}
	return map[string]any{}
}

func asObject(value any, logger *slog.Logger) map[string]any {
	var data []byte
	switch v := value.(type) {
	case map[string]any:
		return v
	case string:
		data = []byte(v)
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		return nil
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		logger.Warn("request body is not valid JSON; ignoring string payload", "error", err)
		return nil
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		logger.Warn("request body is not a JSON object; ignoring string payload")
		return nil
	}
	return obj
}

// truthy reports whether v counts as present: not null, not an empty string,
// not false, not zero and not an empty array or object.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// text returns the scalar value of v as a string, or "" for null, arrays
// and objects.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return ""
	}
}
