package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is the single error shape every gateway call produces.
// Status zero means no HTTP response reached the client at all.
type StatusError struct {
	Status  int
	Message string
	Body    []byte
	cause   error
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.cause
}

// transportError wraps a failure that produced no HTTP response.
func transportError(message string, cause error) *StatusError {
	return &StatusError{Status: 0, Message: message, cause: cause}
}

// protocolError builds a StatusError from a non-success response, preferring
// server-supplied detail over the generic status text.
func protocolError(status int, body []byte) *StatusError {
	message := serverDetail(body)
	if message == "" {
		message = http.StatusText(status)
		if message == "" {
			message = fmt.Sprintf("unexpected status %d", status)
		}
	}
	return &StatusError{Status: status, Message: message, Body: body}
}

// serverDetail extracts the human-readable detail FastAPI-style backends put
// under "detail", "error", or "message".
func serverDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed[0] != '{' {
		return ""
	}
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			return detail
		}
		// Validation errors arrive as structured detail; show them verbatim.
		return string(payload.Detail)
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// ErrorStatus returns the HTTP status carried by err, or -1 when err is not
// a gateway error.
func ErrorStatus(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return -1
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return ErrorStatus(err) == http.StatusNotFound
}
