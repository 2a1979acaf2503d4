// ABOUTME: Tests for pqlab-server helpers
// ABOUTME: Covers config path resolution, init rendering and logger setup

package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/pqlab/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("PQLAB_CONFIG", "/etc/pqlab/custom.toml")
	assert.Equal(t, "/etc/pqlab/custom.toml", getConfigPath())

	t.Setenv("PQLAB_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "pqlab", "server.yaml"), getConfigPath())
}

func TestGetDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "pqlab"), getDataPath())
}

func TestRenderConfig_Loads(t *testing.T) {
	t.Setenv(config.DBPathEnv, "")
	content := renderConfig(initAnswers{
		httpAddr:      "127.0.0.1:9090",
		dbPath:        "/var/lib/pqlab/users.db",
		requireBearer: false,
		logLevel:      "debug",
		logFormat:     "json",
	})

	cfg, err := config.Parse([]byte(content), false)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "/var/lib/pqlab/users.db", cfg.Database.Path)
	assert.False(t, cfg.Auth.BearerRequired())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestIsYes(t *testing.T) {
	assert.True(t, isYes("y"))
	assert.True(t, isYes("YES"))
	assert.False(t, isYes("no"))
	assert.False(t, isYes(""))
}

func TestSetupLogger_Formats(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"color", "INF hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := setupLogger(config.LoggingConfig{Level: "info", Format: tt.format}, &buf)
			logger.With("component", "test").Info("hello", "subject", "abc")
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "component")
		})
	}
}

func TestSetupLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestColorHandler_Groups(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "debug", Format: "color"}, &buf)
	logger.WithGroup("req").Debug("done", "status", 200)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "DBG done")
	assert.Contains(t, line, "req.status=200")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
