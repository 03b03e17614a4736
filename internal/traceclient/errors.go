package traceclient

import (
	"errors"
	"fmt"
)

// ErrResponseTooLarge is returned when the service's body exceeds the read
// limit. It is a transport failure, not a malformed response.
var ErrResponseTooLarge = errors.New("traceroute response too large")

// StatusError is returned when the service answers with a non-2xx status.
// Message holds the service's own "error" field, if it sent one.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("traceroute service responded with %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("traceroute service responded with %s", e.Status)
}

// ServerMessage returns the service's own explanation, if any.
func (e *StatusError) ServerMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ServerMessage returns the message the service attached to a failed
// request, or "" when the failure carried none.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
