package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is implemented by errors that carry an HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError reports a non-2xx response. Fields holds per-field messages
// when the server answered with a validation payload.
type StatusError struct {
	Code    int
	Message string
	Fields  map[string][]string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("client: status %d: %s", e.StatusCode(), msg)
}

// StatusCode returns the response status.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

const maxErrorBody = 4 << 10

type errorPayload struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// statusError decodes the body when it is a JSON error payload and falls
// back to the raw text otherwise.
func statusError(code int, body []byte) *StatusError {
	out := &StatusError{Code: code}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return out
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		out.Message = firstNonEmpty(payload.Error, payload.Message)
		if len(payload.Errors) > 0 {
			out.Fields = payload.Errors
		}
		return out
	}

	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	out.Message = trimmed
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
