package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// Reason extracts a human-readable message from the upstream body.
//
// A JSON object body yields its "error" field (a plain string, or the
// "message" of an object-shaped error); a JSON object without that field
// yields fallback. A body that is not a JSON object is returned as raw text.
func (e *UpstreamError) Reason(fallback string) string {
	raw := bytes.TrimSpace(e.Body)
	if len(raw) == 0 {
		return fallback
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return string(raw)
	}

	field, ok := payload["error"]
	if !ok {
		return fallback
	}

	var msg string
	if err := json.Unmarshal(field, &msg); err == nil {
		if msg == "" {
			return fallback
		}
		return msg
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(field, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	return string(field)
}
