// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pagelens-cli/internal/config"
)

// syncBuffer adapts a bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func TestInitialize(t *testing.T) {
	t.Run("console logger with colors", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "testsvc",
			Colors:      config.ColorConfig{Info: "green"},
		}, zapcore.Lock(buf))

		GetLogger().Info("This is a test message.")

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "This is a test message.")
		assert.Contains(t, output, colorGreen, "Info level should be colorized green")
		assert.Contains(t, output, colorReset)
		assert.Contains(t, output, "testsvc.")
	})

	t.Run("json logger", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "jsontest",
		}, zapcore.Lock(buf))

		GetLogger().Warn("structured message", zap.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "structured message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("level filtering", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.Lock(buf))

		GetLogger().Info("should be filtered")
		GetLogger().Warn("should appear")

		output := buf.String()
		assert.NotContains(t, output, "should be filtered")
		assert.Contains(t, output, "should appear")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "nonsense", Format: "json"}, zapcore.Lock(buf))

		GetLogger().Debug("debug hidden")
		GetLogger().Info("info shown")

		output := buf.String()
		assert.NotContains(t, output, "debug hidden")
		assert.Contains(t, output, "info shown")
	})

	t.Run("second initialize is a no-op", func(t *testing.T) {
		ResetForTest()
		first := &syncBuffer{}
		second := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.Lock(first))
		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.Lock(second))

		GetLogger().Info("routed once")
		assert.Contains(t, first.String(), "routed once")
		assert.Empty(t, second.String())
	})
}
