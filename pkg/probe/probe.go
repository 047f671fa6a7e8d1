package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mchmarny/romenu/pkg/metric"
	"github.com/mchmarny/romenu/pkg/restful"
)

// DefaultTimeout bounds the probe request.
const DefaultTimeout = 5 * time.Second

type config struct {
	httpClient *http.Client
	timeout    time.Duration
	counter    metric.IncrementalCounter
}

// Option configures a probe.
type Option func(*config)

// WithHTTPClient sets the client used for the probe request.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) { cfg.httpClient = c }
}

// WithTimeout bounds the probe. Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithCounter records the probe result under the "probe" operation.
func WithCounter(c metric.IncrementalCounter) Option {
	return func(cfg *config) { cfg.counter = c }
}

// IsBackendAvailable issues one blocking GET against endpoint and reports
// whether it answered 200. Every transport failure reads as unavailable.
//
// The call blocks until the response, the timeout or ctx cancellation; use it
// from diagnostics and tests, not from latency sensitive paths.
func IsBackendAvailable(ctx context.Context, endpoint string, creds restful.Credentials, opts ...Option) bool {
	cfg := &config{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ok := available(ctx, cfg, endpoint, creds)
	if cfg.counter != nil {
		result := metric.ResultSuccess
		if !ok {
			result = metric.ResultFailure
		}
		cfg.counter.Increment("probe", result)
	}

	return ok
}

func available(ctx context.Context, cfg *config, endpoint string, creds restful.Credentials) bool {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := restful.NewRequest(ctx, http.MethodGet, endpoint, creds, nil)
	if err != nil {
		slog.Debug("probe request not built", "url", endpoint, "error", err)
		return false
	}

	resp, err := cfg.httpClient.Do(req)
	if err != nil {
		slog.Debug("probe failed", "url", endpoint, "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	slog.Debug("probe completed", "url", endpoint, "status", resp.StatusCode)

	return resp.StatusCode == http.StatusOK
}
