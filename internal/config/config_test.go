package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Session.MaxUploadBytes != 104857600 {
		t.Errorf("Session.MaxUploadBytes = %d, want %d", cfg.Session.MaxUploadBytes, 104857600)
	}
	if want := []int{10, 25, 50, 100}; !reflect.DeepEqual(cfg.Session.PageSizes, want) {
		t.Errorf("Session.PageSizes = %v, want %v", cfg.Session.PageSizes, want)
	}
	if cfg.Session.DefaultPageSize != 25 {
		t.Errorf("Session.DefaultPageSize = %d, want 25", cfg.Session.DefaultPageSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("SESSION_PAGE_SIZES", "5, 10,20")
	os.Setenv("SESSION_DEFAULT_PAGE_SIZE", "10")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("SESSION_PAGE_SIZES")
		os.Unsetenv("SESSION_DEFAULT_PAGE_SIZE")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if want := []int{5, 10, 20}; !reflect.DeepEqual(cfg.Session.PageSizes, want) {
		t.Errorf("Session.PageSizes = %v, want %v", cfg.Session.PageSizes, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("SERVER_SHUTDOWN_TIMEOUT", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("SERVER_SHUTDOWN_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 45s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 90*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 1m30s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port number", "SERVER_PORT", "not-a-port"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad duration", "SERVER_READ_TIMEOUT", "soon"},
		{"bad page size list", "SESSION_PAGE_SIZES", "10,two,30"},
		{"default outside page sizes", "SESSION_DEFAULT_PAGE_SIZE", "33"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9000, ":9000"},
		{"localhost", 80, "localhost:80"},
	}

	for _, tt := range tests {
		c := ServerConfig{Host: tt.host, Port: tt.port}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}
