package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mergington/enroll/internal/activity"
)

// GenericFailure is shown when the server gives no usable detail or the
// request never completed.
const GenericFailure = "Something went wrong. Please try again."

// Error is a non-2xx response from the backend. Detail carries the server's
// structured error text when present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Detail)
}

// UserMessage returns the text to surface to the user: the server detail
// verbatim when present, a generic fallback otherwise.
func (e *Error) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFailure
}

// newError builds an *Error from a non-2xx response body, tolerating bodies
// that are not the expected {"detail": ...} shape.
func newError(statusCode int, body []byte) *Error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	return &Error{
		StatusCode: statusCode,
		Detail:     activity.Sanitize(payload.Detail),
	}
}

// UserMessage extracts user-facing text from any error produced by this
// package: server detail for *Error, the generic fallback for transport and
// decode failures.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return GenericFailure
}
