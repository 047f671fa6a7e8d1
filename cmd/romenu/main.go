package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mchmarny/romenu/pkg/config"
	"github.com/mchmarny/romenu/pkg/logger"
	"github.com/mchmarny/romenu/pkg/menu"
	"github.com/mchmarny/romenu/pkg/metric"
	"github.com/mchmarny/romenu/pkg/render"
	"github.com/mchmarny/romenu/pkg/restful"
	"github.com/mchmarny/romenu/pkg/server"
	"github.com/mchmarny/romenu/pkg/session"
	"github.com/mchmarny/romenu/pkg/smoke"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"     // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	logger.SetDefaultLoggerWithLevel("romenu", version, cfg.LogLevel)
	slog.Info("starting romenu", "commit", commit, "date", date, "endpoint", cfg.Endpoint)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("romenu failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run probes the backend, logs in, renders the discovered menu bar to out
// and, when configured, keeps serving it until ctx is canceled.
func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	reg := prometheus.NewRegistry()
	requests := metric.NewRequestCounter(reg)

	h := &smoke.Helper{
		Endpoint:    cfg.Endpoint,
		Credentials: restful.Credentials{Username: cfg.Username, Password: cfg.Password},
		Timeout:     cfg.Timeout,
		Counter:     requests,
	}

	if !h.IsAppAvailable(ctx) {
		return fmt.Errorf("backend %s is not available", cfg.Endpoint)
	}

	s, err := h.Login(ctx)
	if err != nil {
		return err
	}

	p := menu.NewPresenter(render.NewText(out), loginPrompter(s, cfg),
		menu.WithActivationCounter(metric.NewActivationCounter(reg)))

	refresh(ctx, s, p)

	if !cfg.Serve {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Run(gCtx, serverOptions(cfg, reg)...)
	})

	if cfg.Refresh > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Refresh)
			defer ticker.Stop()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case <-ticker.C:
					refresh(gCtx, s, p)
				}
			}
		})
	}

	return g.Wait()
}

// serverOptions maps the server settings of cfg onto the menu bar server.
func serverOptions(cfg config.Config, reg *prometheus.Registry) []server.Option {
	opts := []server.Option{
		server.WithPort(cfg.Port),
		server.WithReadTimeout(cfg.ReadTimeout),
		server.WithWriteTimeout(cfg.WriteTimeout),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithSimpleHealth(),
		server.WithMetrics(reg),
		server.WithErrorLog(logger.NewLogLogger(slog.LevelError)),
	}
	if cfg.TLS() {
		opts = append(opts, server.WithTLS(server.TLSConfig{CertFile: cfg.TLSCert, KeyFile: cfg.TLSKey}))
	}
	return opts
}

// refresh rediscovers the menu and amends the bar. A failed discovery keeps
// the bar as it is.
func refresh(ctx context.Context, s *session.Session, p *menu.Presenter) {
	m, err := discover(ctx, s)
	if err != nil {
		slog.Error("menu discovery failed", "endpoint", s.Endpoint(), "error", err)
		return
	}
	p.Amend(m)
}

func discover(ctx context.Context, s *session.Session) (*menu.Menu, error) {
	var raw json.RawMessage
	if err := s.Get(ctx, menu.MenuBarsPath, &raw); err != nil {
		return nil, err
	}
	return menu.ParseMenuBars(raw)
}

// loginPrompter answers every menu activation by logging in again with the
// configured credentials.
func loginPrompter(s *session.Session, cfg config.Config) menu.Prompter {
	return menu.PrompterFunc(func(ctx context.Context, l menu.Link) error {
		slog.Info("login prompt", "link", l.Label, "username", cfg.Username)
		return s.Login(ctx, cfg.Endpoint, cfg.Username, cfg.Password)
	})
}
