package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/tracker/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("json when not a terminal", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := newLogger(config.Default(), &buf, false)
		logger.Info("hello", slog.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("text on a terminal", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := newLogger(config.Default(), &buf, true)
		logger.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level from config", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		cfg := config.Default()
		cfg.LogLevel = slog.LevelWarn
		logger := newLogger(cfg, &buf, false)
		logger.Info("dropped")
		assert.Empty(t, buf.String())
	})
}
