package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/romenu/pkg/logger"
	"github.com/mchmarny/romenu/pkg/server"
	"github.com/mchmarny/romenu/pkg/smoke"
)

const (
	envEndpoint        = "ROMENU_ENDPOINT"
	envUsername        = "ROMENU_USERNAME"
	envPassword        = "ROMENU_PASSWORD"
	envPort            = "ROMENU_PORT"
	envTimeout         = "ROMENU_TIMEOUT"
	envServe           = "ROMENU_SERVE"
	envRefresh         = "ROMENU_REFRESH"
	envReadTimeout     = "ROMENU_READ_TIMEOUT"
	envWriteTimeout    = "ROMENU_WRITE_TIMEOUT"
	envShutdownTimeout = "ROMENU_SHUTDOWN_TIMEOUT"
	envTLSCert         = "ROMENU_TLS_CERT"
	envTLSKey          = "ROMENU_TLS_KEY"
)

// Config captures runtime configuration for the client.
type Config struct {
	Endpoint string
	Username string
	Password string
	Port     int
	Timeout  time.Duration
	Serve    bool
	Refresh  time.Duration
	LogLevel string

	// Server settings, used only when Serve is set.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TLSCert         string
	TLSKey          string
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// environment variables, which win over defaults. A set but malformed
// environment variable is an error.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := &envReader{values: parseEnv(environ)}

	fs := flag.NewFlagSet("romenu", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	endpoint := fs.String("endpoint", env.text(envEndpoint, smoke.DefaultEndpoint), "backend base URL")
	username := fs.String("username", env.text(envUsername, smoke.DefaultUsername), "backend username")
	password := fs.String("password", env.text(envPassword, smoke.DefaultPassword), "backend password")
	port := fs.Int("port", env.integer(envPort, server.DefaultPort), "port to serve the menu bar on")
	timeout := fs.Duration("timeout", env.duration(envTimeout, smoke.DefaultTimeout), "timeout of each backend request")
	serve := fs.Bool("serve", env.boolean(envServe, false), "keep serving the menu bar over HTTP")
	refresh := fs.Duration("refresh", env.duration(envRefresh, 0), "menu rediscovery interval while serving (0 disables)")
	logLevel := fs.String("log-level", env.text(logger.EnvVarLogLevel, "info"), "log level (debug, info, warn, error)")
	readTimeout := fs.Duration("read-timeout", env.duration(envReadTimeout, server.DefaultReadTimeout), "server request read timeout")
	writeTimeout := fs.Duration("write-timeout", env.duration(envWriteTimeout, server.DefaultWriteTimeout), "server response write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", env.duration(envShutdownTimeout, server.DefaultShutdownTimeout), "graceful shutdown timeout")
	tlsCert := fs.String("tls-cert", env.text(envTLSCert, ""), "TLS certificate file, serves HTTPS together with -tls-key")
	tlsKey := fs.String("tls-key", env.text(envTLSKey, ""), "TLS key file, serves HTTPS together with -tls-cert")

	if env.err != nil {
		return Config{}, env.err
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Endpoint:        strings.TrimSpace(*endpoint),
		Username:        *username,
		Password:        *password,
		Port:            *port,
		Timeout:         *timeout,
		Serve:           *serve,
		Refresh:         *refresh,
		LogLevel:        *logLevel,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
		TLSCert:         strings.TrimSpace(*tlsCert),
		TLSKey:          strings.TrimSpace(*tlsKey),
	}

	return cfg, nil
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}
	if cfg.Refresh < 0 {
		return fmt.Errorf("refresh must be >= 0 (got %s)", cfg.Refresh)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be within 0-65535 (got %d)", cfg.Port)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be > 0 (got read %s, write %s, shutdown %s)",
			cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout)
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return fmt.Errorf("tls-cert and tls-key must be set together")
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// envReader looks up flag defaults and collects every malformed value.
type envReader struct {
	values map[string]string
	err    error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *envReader) fail(key, kind, v string) {
	r.err = errors.Join(r.err, fmt.Errorf("%s: invalid %s %q", key, kind, v))
}

func (r *envReader) text(key, fallback string) string {
	if v, ok := r.values[key]; ok {
		return v
	}
	return fallback
}

func (r *envReader) integer(key string, fallback int) int {
	v, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, "integer", v)
		return fallback
	}
	return parsed
}

func (r *envReader) boolean(key string, fallback bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, "boolean", v)
		return fallback
	}
	return parsed
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, "duration", v)
		return fallback
	}
	return parsed
}
