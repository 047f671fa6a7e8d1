// Package smoke checks a running backend end to end: it probes the endpoint,
// logs in and runs the fixture script action. Integration tests use it to
// skip themselves when no backend is up.
package smoke

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/romenu/pkg/metric"
	"github.com/mchmarny/romenu/pkg/probe"
	"github.com/mchmarny/romenu/pkg/restful"
	"github.com/mchmarny/romenu/pkg/session"
)

const (
	// DefaultEndpoint is the backend a local demo application listens on.
	DefaultEndpoint = "http://localhost:8080/restful/"

	// DefaultUsername and DefaultPassword are the demo application credentials.
	DefaultUsername = "sven"
	DefaultPassword = "pass"

	// DefaultTimeout bounds each request issued by the helper.
	DefaultTimeout = 5 * time.Second
)

//go:embed fixture_script.json
var fixtureScript []byte

// Helper runs smoke checks against one backend.
type Helper struct {
	Endpoint    string
	Credentials restful.Credentials
	Timeout     time.Duration
	Counter     metric.IncrementalCounter
}

// New returns a helper for the local demo backend.
func New() *Helper {
	return &Helper{
		Endpoint:    DefaultEndpoint,
		Credentials: restful.Credentials{Username: DefaultUsername, Password: DefaultPassword},
		Timeout:     DefaultTimeout,
	}
}

// IsAppAvailable reports whether the backend answers 200 to the configured credentials.
func (h *Helper) IsAppAvailable(ctx context.Context) bool {
	ok := probe.IsBackendAvailable(ctx, h.Endpoint, h.Credentials,
		probe.WithTimeout(h.Timeout),
		probe.WithCounter(h.Counter))

	slog.Info("backend availability", "url", h.Endpoint, "available", ok)

	return ok
}

// Login opens a session with the configured credentials. The session is
// returned even when login fails so callers can inspect its state.
func (h *Helper) Login(ctx context.Context) (*session.Session, error) {
	s := session.New(session.WithTimeout(h.Timeout), session.WithCounter(h.Counter))
	err := s.Login(ctx, h.Endpoint, h.Credentials.Username, h.Credentials.Password)
	return s, err
}

// InvokeFixtureScript parses the runFixtureScript action description and
// invokes its invoke link on s, returning the observed outcome.
func (h *Helper) InvokeFixtureScript(ctx context.Context, s *session.Session) (session.Outcome, error) {
	action, err := restful.ParseAction(fixtureScript)
	if err != nil {
		return session.Outcome{}, fmt.Errorf("fixture script: %w", err)
	}

	link, err := action.InvokeLink()
	if err != nil {
		return session.Outcome{}, fmt.Errorf("fixture script: %w", err)
	}

	slog.Info("invoking fixture script", "session", s.ID(), "href", link.Href)

	var out session.Outcome
	err = s.InvokeAction(ctx, link, session.ObserverFunc(func(o session.Outcome) {
		out = o
	}))

	return out, err
}
