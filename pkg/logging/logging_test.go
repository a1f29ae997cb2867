package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestInitForCLI_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("Test", "debug message should be filtered")
	Info("Test", "info message %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "debug message should be filtered")
	assert.Contains(t, out, "info message 42")
	assert.Contains(t, out, "subsystem=Test")
}

func TestUninitializedFallbackDropsDebug(t *testing.T) {
	saved := defaultLogger
	defaultLogger = nil
	t.Cleanup(func() { defaultLogger = saved })

	out := captureStderr(t, func() {
		Debug("Config", "no config.yaml at %s, using defaults", "/tmp/config.yaml")
	})
	assert.Empty(t, out)

	out = captureStderr(t, func() {
		Warn("Config", "unreadable config file")
	})
	assert.Contains(t, out, "[LOGGING_ERROR]")
	assert.Contains(t, out, "unreadable config file")
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	saved := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = saved }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestErrorIncludesErrAttribute(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Error("Executor", assert.AnError, "request failed")

	out := buf.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, "subsystem=Executor")
	assert.True(t, strings.Contains(out, assert.AnError.Error()))
}
