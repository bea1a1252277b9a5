package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ResponseError is a failure the server reported: a non-2xx status, or a
// body whose status field is not "success". Message is the server's own
// text and may be empty.
type ResponseError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unauthorized reports whether the server rejected the credentials.
func (e *ResponseError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ServerMessage extracts the server-provided message from err, if any.
func ServerMessage(err error) (string, bool) {
	var re *ResponseError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}
	return "", false
}

// MessageOr returns the server message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	if msg, ok := ServerMessage(err); ok {
		return msg
	}
	return fallback
}
