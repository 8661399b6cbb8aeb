package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":4567", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./public/data/files", cfg.Content.Root)
	assert.Equal(t, "404_error.md", cfg.Content.NotFoundFile)
	assert.Equal(t, "js_recursion", cfg.Content.DefaultPost)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("MDBLOG_SERVER_ADDR", "127.0.0.1:8080")
	t.Setenv("MDBLOG_CONTENT_ROOT", "/srv/posts")
	t.Setenv("MDBLOG_SERVER_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MDBLOG_SITE_TITLE", "Notes")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "/srv/posts", cfg.Content.Root)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "Notes", cfg.Site.Title)
}

func TestLoadDefaultPostIsFixed(t *testing.T) {
	t.Setenv("MDBLOG_CONTENT_DEFAULT_POST", "something_else")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPost, cfg.Content.DefaultPost)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdblog.yaml")
	data := "server:\n  addr: \":9000\"\ncontent:\n  root: /var/blog\nlogger:\n  format: console\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/var/blog", cfg.Content.Root)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty content root",
			mutate:  func(c *Config) { c.Content.Root = "" },
			wantErr: true,
		},
		{
			name:    "not found file outside root",
			mutate:  func(c *Config) { c.Content.NotFoundFile = "../404_error.md" },
			wantErr: true,
		},
		{
			name:    "not found file without markdown extension",
			mutate:  func(c *Config) { c.Content.NotFoundFile = "404.txt" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logger.Format = "xml" },
			wantErr: true,
		},
		{
			name: "metrics enabled without address",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = ""
			},
			wantErr: true,
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
