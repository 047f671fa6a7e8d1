package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mchmarny/romenu/pkg/metric"
	"github.com/mchmarny/romenu/pkg/restful"
)

const (
	// DefaultTimeout bounds every request issued by a Session.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps the response body size, larger bodies are an error.
	maxBodyBytes = 1 << 20 // 1 MB

	// maxErrorBody caps how much of a rejected response is kept in errors.
	maxErrorBody = 512
)

// State is the authentication state of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the relationship between the client and one backend endpoint.
//
// Requests on a Session are serialised: at most one login, invocation or
// read is in flight at a time and later callers wait their turn.
type Session struct {
	id         uuid.UUID
	httpClient *http.Client
	timeout    time.Duration
	counter    metric.IncrementalCounter

	reqMu sync.Mutex // held for the duration of a request

	mu       sync.RWMutex // protects the fields below
	endpoint string
	base     *url.URL
	creds    restful.Credentials
	state    State
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient sets the client used for backend requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.httpClient = c }
}

// WithTimeout bounds each request. Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCounter records every request by operation and result.
func WithCounter(c metric.IncrementalCounter) Option {
	return func(s *Session) { s.counter = c }
}

// New creates an unauthenticated session.
func New(opts ...Option) *Session {
	s := &Session{
		id:         uuid.New(),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		state:      Unauthenticated,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id.String()
}

// State returns the current authentication state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Endpoint returns the endpoint of the last login attempt.
func (s *Session) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// Username returns the authenticated user, empty unless authenticated.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Username
}

// Login authenticates against endpoint with basic credentials. A 200 response
// moves the session to Authenticated; anything else moves it to Failed and
// returns an *AuthenticationError. Login is never retried.
func (s *Session) Login(ctx context.Context, endpoint, username, password string) error {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	creds := restful.Credentials{Username: username, Password: password}
	base, err := s.login(ctx, endpoint, creds)
	s.count("login", err)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoint = endpoint
	if err != nil {
		s.state = Failed
		s.base = nil
		s.creds = restful.Credentials{}
		slog.Error("login failed",
			"session", s.id,
			"endpoint", endpoint,
			"username", username,
			"error", err)
		return err
	}

	s.state = Authenticated
	s.base = base
	s.creds = creds
	slog.Info("login succeeded",
		"session", s.id,
		"endpoint", base.String(),
		"username", username)

	return nil
}

func (s *Session) login(ctx context.Context, endpoint string, creds restful.Credentials) (*url.URL, error) {
	base, err := restful.ParseBaseURL(endpoint)
	if err != nil {
		return nil, &AuthenticationError{Endpoint: endpoint, Username: creds.Username, Err: err}
	}

	status, _, err := s.do(ctx, http.MethodGet, base.String(), creds, nil)
	if err != nil {
		return nil, &AuthenticationError{Endpoint: endpoint, Username: creds.Username, Err: err}
	}

	if status != http.StatusOK {
		return nil, &AuthenticationError{Endpoint: endpoint, Username: creds.Username, StatusCode: status}
	}

	return base, nil
}

// Logout drops the credentials and returns the session to Unauthenticated.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = Unauthenticated
	s.base = nil
	s.creds = restful.Credentials{}

	slog.Info("logout", "session", s.id, "previous_state", prev.String())
}

// InvokeAction follows an action invoke link. The observer, when not nil, is
// notified of the outcome whether the invocation succeeds or fails. Failures
// are returned as *InvocationError.
func (s *Session) InvokeAction(ctx context.Context, link restful.Link, observer Observer) error {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	out := s.invoke(ctx, link)
	s.count("invoke", out.Err)

	if out.Err != nil {
		slog.Error("invocation failed",
			"session", s.id,
			"href", link.Href,
			"status", out.StatusCode,
			"error", out.Err)
	} else {
		slog.Info("invocation completed",
			"session", s.id,
			"href", link.Href,
			"status", out.StatusCode)
	}

	if observer != nil {
		observer.OnResult(out)
	}

	return out.Err
}

func (s *Session) invoke(ctx context.Context, link restful.Link) Outcome {
	out := Outcome{Link: link}

	base, creds, state := s.snapshot()
	if state != Authenticated {
		out.Err = &InvocationError{Href: link.Href, Err: ErrNotAuthenticated}
		return out
	}

	if err := link.Validate(); err != nil {
		out.Err = &InvocationError{Href: link.Href, Err: err}
		return out
	}

	target, err := restful.Resolve(base, link.Href)
	if err != nil {
		out.Err = &InvocationError{Href: link.Href, Err: err}
		return out
	}

	method := link.InvokeMethod()

	var body io.Reader
	if len(link.Arguments) > 0 && method != http.MethodGet {
		b, err := json.Marshal(link.Arguments)
		if err != nil {
			out.Err = &InvocationError{Href: link.Href, Err: fmt.Errorf("marshal arguments: %w", err)}
			return out
		}
		body = bytes.NewReader(b)
	}

	status, respBody, err := s.do(ctx, method, target.String(), creds, body)
	if err != nil {
		out.Err = &InvocationError{Href: link.Href, Err: err}
		return out
	}

	out.StatusCode = status
	out.Body = respBody

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		out.Err = &InvocationError{Href: link.Href, StatusCode: status, Body: truncate(respBody, maxErrorBody)}
	}

	return out
}

// Get reads the JSON resource at path, relative to the session base URL,
// into v.
func (s *Session) Get(ctx context.Context, path string, v any) error {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	err := s.get(ctx, path, v)
	s.count("get", err)

	return err
}

func (s *Session) get(ctx context.Context, path string, v any) error {
	base, creds, state := s.snapshot()
	if state != Authenticated {
		return fmt.Errorf("get %s: %w", path, ErrNotAuthenticated)
	}

	target, err := restful.Resolve(base, path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}

	status, body, err := s.do(ctx, http.MethodGet, target.String(), creds, nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d: %s", path, status, truncate(body, maxErrorBody))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("get %s: decode response: %w", path, err)
	}

	return nil
}

func (s *Session) snapshot() (*url.URL, restful.Credentials, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base, s.creds, s.state
}

// do issues one request bounded by the session timeout and reads the
// response body. Network level failures come back as *restful.TransportError.
func (s *Session) do(ctx context.Context, method, target string, creds restful.Credentials, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := restful.NewRequest(ctx, method, target, creds, body)
	if err != nil {
		return 0, nil, err
	}

	slog.Debug("backend request", "session", s.id, "method", method, "url", target)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, &restful.TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return resp.StatusCode, nil, &restful.TransportError{Method: method, URL: target, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(respBody) > maxBodyBytes {
		return resp.StatusCode, nil, &restful.TransportError{Method: method, URL: target, Err: fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, maxBodyBytes)}
	}

	return resp.StatusCode, respBody, nil
}

func (s *Session) count(operation string, err error) {
	if s.counter != nil {
		s.counter.Increment(operation, metric.Result(err))
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
