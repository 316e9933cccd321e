package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triad/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json at info drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"})
		require.NoError(t, err)

		log.Debug("hidden")
		log.Info("record processed", "record_id", "r-1")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"record_id":"r-1"`)
	})

	t.Run("text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := NewWithWriter(&buf, config.LogConfig{Level: "DEBUG", Format: "text"})
		require.NoError(t, err)

		log.Debug("scan", "alert_level", "CALM")
		assert.Contains(t, buf.String(), "alert_level=CALM")
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := NewWithWriter(&bytes.Buffer{}, config.LogConfig{Level: "loud"})
		assert.Error(t, err)
		_, err = NewWithWriter(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}
