package session

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by operations that need an authenticated session.
var ErrNotAuthenticated = errors.New("session is not authenticated")

// ErrResponseTooLarge is wrapped in the *restful.TransportError returned when
// a response body exceeds the read limit.
var ErrResponseTooLarge = errors.New("response too large")

// AuthenticationError reports a failed login: rejected credentials, an invalid
// endpoint or an unreachable backend (Err is then a *restful.TransportError).
type AuthenticationError struct {
	Endpoint   string
	Username   string
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login %s as %q: %v", e.Endpoint, e.Username, e.Err)
	}
	return fmt.Sprintf("login %s as %q: rejected with status %d", e.Endpoint, e.Username, e.StatusCode)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// InvocationError reports a failed action invocation: an invalid link, a
// session that is not authenticated, a rejection by the backend or a
// transport failure.
type InvocationError struct {
	Href       string
	StatusCode int
	Body       string
	Err        error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoke %s: %v", e.Href, e.Err)
	}
	return fmt.Sprintf("invoke %s: rejected with status %d: %s", e.Href, e.StatusCode, e.Body)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
