package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected string
	}{
		{"debug level", LevelDebug, "DEBUG"},
		{"info level", LevelInfo, "INFO"},
		{"error level", LevelError, "ERROR"},
		{"unknown level", Level(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, LevelInfo, config.Level)
	assert.Equal(t, os.Stdout, config.Output)
	assert.False(t, config.LogToFile)
	assert.Equal(t, "2006-01-02 15:04:05", config.TimeFormat)
	assert.Equal(t, 10, config.MaxSizeMB)
}

func TestNewLogger_WithNilConfig(t *testing.T) {
	logger, err := NewLogger(nil)

	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, LevelInfo, logger.GetLevel())
}

func TestNewLogger_WithCustomOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&Config{Level: LevelDebug, Output: &buf})
	require.NoError(t, err)

	logger.Info("test message %d", 42)

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "test message 42")
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"debug shows everything", LevelDebug, true, true},
		{"info hides debug", LevelInfo, false, true},
		{"error hides info", LevelError, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger, err := NewLogger(&Config{Level: tt.level, Output: &buf})
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Error("error line")

			output := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains([]byte(output), []byte("debug line")))
			assert.Equal(t, tt.wantInfo, bytes.Contains([]byte(output), []byte("info line")))
			assert.Contains(t, output, "error line")
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&Config{Level: LevelError, Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&Config{Level: LevelInfo, Output: &buf})
	require.NoError(t, err)

	logger.With("table", "bookings").Info("loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "bookings")
}

func TestNewLogger_WithFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "test.log")

	logger, err := NewLogger(&Config{Level: LevelDebug, LogToFile: true, LogFile: logFile})
	require.NoError(t, err)

	logger.Debug("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "written to file")
}

func TestNewInternalLogger(t *testing.T) {
	cacheDir := t.TempDir()

	logger, err := NewInternalLogger(LevelInfo, cacheDir)
	require.NoError(t, err)

	logger.Info("startup")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(cacheDir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "startup")
}

func TestNewFileLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "file.log")

	logger, err := NewFileLogger(LevelError, logFile)
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Error("kept")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "skipped")
	assert.Contains(t, string(data), "kept")
}

func TestGetGlobalLogger_BeforeInit(t *testing.T) {
	assert.NotNil(t, GetGlobalLogger())
}
