package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_CarriesSessionContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter("session-1", "manager", &buf)

	logger.Info("files selected", map[string]any{"count": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "files selected", entry["message"])
	assert.Equal(t, "session-1", entry["session_id"])
	assert.Equal(t, "manager", entry["variant"])

	fields, ok := entry["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), fields["count"])
}

func TestLogger_EmptyVariantOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter("session-1", "", &buf)

	logger.Warn("something", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	_, hasVariant := entry["variant"]
	assert.False(t, hasVariant)
}

func TestNop_DiscardsEverything(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Debug("a", nil)
		logger.Info("b", map[string]any{"x": 1})
		logger.Error("c", nil)
		logger.Sugar().Infof("d %d", 1)
	})
}

func TestSugar_Formatting(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerWithWriter("s", "", &buf)

	logger.Sugar().With("file", "a.png").Infof("uploaded %d bytes", 512)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "uploaded 512 bytes", entry["message"])
	assert.Equal(t, "a.png", entry["file"])
}
