package restful

import (
	"errors"
	"fmt"
)

// ErrNoInvokeLink is returned when an action description carries no invoke link.
var ErrNoInvokeLink = errors.New("action has no invoke link")

// TransportError is a network level failure: connection refused, timeout,
// TLS failure or an unreadable response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
