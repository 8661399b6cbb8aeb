package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mdblog/app/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggerConfig
		wantErr bool
	}{
		{name: "json", cfg: config.LoggerConfig{Level: "info", Format: "json", Output: "stderr"}},
		{name: "console", cfg: config.LoggerConfig{Level: "debug", Format: "console", Output: "stdout"}},
		{name: "default output", cfg: config.LoggerConfig{Level: "warn", Format: "json"}},
		{name: "bad level", cfg: config.LoggerConfig{Level: "loud", Format: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log.SugaredLogger)
		})
	}
}

func TestLogHTTPRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromCore(core).WithComponent("http")

	log.LogHTTPRequest("GET", "/markdown/hello", "10.0.0.1:1234", 200, 1500*time.Microsecond)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "http", fields["component"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/markdown/hello", fields["path"])
	assert.EqualValues(t, 200, fields["status_code"])
	assert.Equal(t, 1.5, fields["duration_ms"])
}

func TestWithError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	FromCore(core).WithError(errors.New("boom")).Error("failed")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Infow("discarded", "key", "value")
	assert.NoError(t, log.Close())
}
