// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, defaults, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", `
server:
  http_addr: "0.0.0.0:8443"
  read_header_timeout: "3s"
  shutdown_timeout: "1m"

database:
  path: "./test.db"

auth:
  require_bearer_scheme: false
  max_token_length: 8192

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8443" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8443")
	}
	if cfg.Server.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("Server.ReadHeaderTimeout = %v, want 3s", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Server.ShutdownTimeout != time.Minute {
		t.Errorf("Server.ShutdownTimeout = %v, want 1m", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Auth.BearerRequired() {
		t.Error("Auth.BearerRequired() = true, want false")
	}
	if cfg.Auth.MaxTokenLength != 8192 {
		t.Errorf("Auth.MaxTokenLength = %d, want 8192", cfg.Auth.MaxTokenLength)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := writeConfig(t, "server.toml", `
[server]
http_addr = "127.0.0.1:9000"
shutdown_timeout = "2s"

[database]
path = "/tmp/users.db"

[auth]
require_bearer_scheme = true

[logging]
format = "color"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.Path != "/tmp/users.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if !cfg.Auth.BearerRequired() {
		t.Error("Auth.BearerRequired() = false, want true")
	}
	if cfg.Logging.Format != "color" {
		t.Errorf("Logging.Format = %q, want color", cfg.Logging.Format)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", `
database:
  path: "./test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Server.ReadHeaderTimeout != DefaultReadHeaderTimeout {
		t.Errorf("ReadHeaderTimeout = %v", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Auth.BearerRequired() {
		t.Error("Bearer scheme should be required by default")
	}
	if cfg.Auth.MaxTokenLength != DefaultMaxTokenLength {
		t.Errorf("MaxTokenLength = %d", cfg.Auth.MaxTokenLength)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_PQLAB_DIR", "/srv/pqlab")

	configPath := writeConfig(t, "server.yaml", `
database:
  path: "${TEST_PQLAB_DIR}/users.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/srv/pqlab/users.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/srv/pqlab/users.db")
	}
}

func TestLoad_DBPathOverride(t *testing.T) {
	t.Setenv(DBPathEnv, "/override/users.db")

	configPath := writeConfig(t, "server.yaml", `
database:
  path: "./test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/override/users.db" {
		t.Errorf("Database.Path = %q, want override", cfg.Database.Path)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "missing database path",
			file:    "server.yaml",
			content: "server:\n  http_addr: \":8080\"\n",
			wantErr: "database.path is required",
		},
		{
			name:    "bad duration",
			file:    "server.yaml",
			content: "database:\n  path: x.db\nserver:\n  shutdown_timeout: \"soon\"\n",
			wantErr: "shutdown_timeout",
		},
		{
			name:    "bad log level",
			file:    "server.yaml",
			content: "database:\n  path: x.db\nlogging:\n  level: \"loud\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			file:    "server.yaml",
			content: "database:\n  path: x.db\nlogging:\n  format: \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "invalid yaml",
			file:    "server.yaml",
			content: "server: [unclosed\n",
			wantErr: "parsing config file",
		},
		{
			name:    "invalid toml",
			file:    "server.toml",
			content: "[server\n",
			wantErr: "parsing config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DBPathEnv, "")
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_A", "alpha")

	got := expandEnvVars("${TEST_A}-${TEST_UNSET_VAR_XYZ}-$TEST_A")
	if got != "alpha--$TEST_A" {
		t.Errorf("expandEnvVars() = %q", got)
	}
}
