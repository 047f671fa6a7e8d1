package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Endpoint != "http://localhost:8080/restful/" {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	if cfg.Username != "sven" || cfg.Password != "pass" {
		t.Fatalf("unexpected credentials %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.Port != 9876 || cfg.Timeout != 5*time.Second || cfg.Serve || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
}

func TestLoadArgsEnvironment(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{
		"ROMENU_ENDPOINT=http://backend:8080/restful/",
		"ROMENU_USERNAME=admin",
		"ROMENU_PORT=8000",
		"ROMENU_TIMEOUT=750ms",
		"ROMENU_SERVE=true",
		"ROMENU_REFRESH=1m",
		"LOG_LEVEL=debug",
		"MALFORMED",
		"",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Endpoint != "http://backend:8080/restful/" || cfg.Username != "admin" || cfg.Port != 8000 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timeout != 750*time.Millisecond || !cfg.Serve || cfg.Refresh != time.Minute || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := LoadArgs(
		[]string{"--endpoint", "http://flag:1/restful/", "--port", "0", "--timeout", "2s"},
		[]string{"ROMENU_ENDPOINT=http://env:2/restful/", "ROMENU_PORT=8000"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "http://flag:1/restful/" || cfg.Port != 0 || cfg.Timeout != 2*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadArgsMalformedEnvironment(t *testing.T) {
	tests := []string{
		"ROMENU_PORT=abc",
		"ROMENU_TIMEOUT=soon",
		"ROMENU_SERVE=maybe",
		"ROMENU_REFRESH=often",
		"ROMENU_READ_TIMEOUT=10",
		"ROMENU_WRITE_TIMEOUT=x",
		"ROMENU_SHUTDOWN_TIMEOUT=later",
	}

	for _, entry := range tests {
		_, err := LoadArgs(nil, []string{entry})
		if err == nil {
			t.Fatalf("%s: expected error", entry)
		}
		key := strings.SplitN(entry, "=", 2)[0]
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("%s: expected error naming %s, got %v", entry, key, err)
		}
	}
}

func TestLoadArgsMalformedEnvironmentReportsAll(t *testing.T) {
	_, err := LoadArgs(nil, []string{"ROMENU_PORT=abc", "ROMENU_SERVE=maybe"})
	if err == nil || !strings.Contains(err.Error(), "ROMENU_PORT") || !strings.Contains(err.Error(), "ROMENU_SERVE") {
		t.Fatalf("expected both variables reported, got %v", err)
	}
}

func TestLoadArgsBlankEnvironmentUsesDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"ROMENU_PORT=", "ROMENU_TIMEOUT= "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9876 || cfg.Timeout != 5*time.Second {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadArgsServerSettings(t *testing.T) {
	cfg, err := LoadArgs(
		[]string{"--shutdown-timeout", "12s", "--tls-cert", "cert.pem"},
		[]string{"ROMENU_TLS_KEY=key.pem", "ROMENU_READ_TIMEOUT=3s", "ROMENU_WRITE_TIMEOUT=4s"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ShutdownTimeout != 12*time.Second || cfg.ReadTimeout != 3*time.Second || cfg.WriteTimeout != 4*time.Second {
		t.Fatalf("unexpected server timeouts %+v", cfg)
	}
	if !cfg.TLS() || cfg.TLSCert != "cert.pem" || cfg.TLSKey != "key.pem" {
		t.Fatalf("unexpected tls settings %+v", cfg)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	defaults, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if defaults.TLS() || defaults.ShutdownTimeout != 5*time.Second || defaults.ReadTimeout != 10*time.Second || defaults.WriteTimeout != 15*time.Second {
		t.Fatalf("unexpected server defaults %+v", defaults)
	}
}

func TestLoadArgsUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"--nope"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Endpoint:        "http://x/",
		Timeout:         time.Second,
		Port:            80,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative refresh", func(c *Config) { c.Refresh = -time.Second }, true},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
		{"zero write timeout", func(c *Config) { c.WriteTimeout = 0 }, true},
		{"tls cert only", func(c *Config) { c.TLSCert = "cert.pem" }, true},
		{"tls key only", func(c *Config) { c.TLSKey = "key.pem" }, true},
		{"tls pair", func(c *Config) { c.TLSCert, c.TLSKey = "cert.pem", "key.pem" }, false},
	}

	for _, tt := range tests {
		cfg := base
		tt.mutate(&cfg)
		if err := Validate(cfg); (err != nil) != tt.wantErr {
			t.Fatalf("%s: expected error %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}
