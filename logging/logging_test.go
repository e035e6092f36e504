package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/0xalexb/hjarta-layers/logging"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	config := logging.Config{Level: "INFO"}
	logger := logging.NewLogger(config, &buf)

	logger.Info("config updated", slog.String("key", "value"))

	var logEntry map[string]any

	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err, "output should be valid JSON")
	require.Equal(t, "config updated", logEntry["msg"])
	require.Equal(t, "value", logEntry["key"])
	require.Equal(t, "INFO", logEntry["level"])
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		configLevel string
		logLevel    slog.Level
		shouldLog   bool
	}{
		{configLevel: "DEBUG", logLevel: slog.LevelDebug, shouldLog: true},
		{configLevel: "debug", logLevel: slog.LevelDebug, shouldLog: true},
		{configLevel: "WARNING", logLevel: slog.LevelWarn, shouldLog: true},
		{configLevel: "INFO", logLevel: slog.LevelDebug, shouldLog: false},
		{configLevel: "ERROR", logLevel: slog.LevelWarn, shouldLog: false},
		{configLevel: "", logLevel: slog.LevelInfo, shouldLog: true},
		{configLevel: "loud", logLevel: slog.LevelDebug, shouldLog: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.configLevel+"/"+testCase.logLevel.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := logging.NewLogger(logging.Config{Level: testCase.configLevel}, &buf)
			logger.Log(context.Background(), testCase.logLevel, "resolved")

			if testCase.shouldLog {
				var logEntry map[string]any

				require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
				require.Equal(t, testCase.logLevel.String(), logEntry["level"])
			} else {
				require.Empty(t, buf.String())
			}
		})
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewLogger(logging.Config{Level: "info", Format: "TEXT"}, &buf)
	logger.Info("manifest pushed", slog.Int("values", 3))

	require.Contains(t, buf.String(), "level=INFO")
	require.Contains(t, buf.String(), `msg="manifest pushed"`)
	require.Contains(t, buf.String(), "values=3")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelWarn, logging.ParseLevel("warn"))
	require.Equal(t, slog.LevelInfo, logging.ParseLevel("nonsense"))
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	require.False(t, logging.Discard().Enabled(context.Background(), slog.LevelError))
}

func TestConfig_ZeroValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	config := logging.Config{}
	logger := logging.NewLogger(config, &buf)

	logger.Info("config updated")

	var logEntry map[string]any

	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err, "output should be valid JSON")
	require.Equal(t, "INFO", logEntry["level"], "default level should be INFO")
}
