package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"TodoAPI/internal/config"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, log.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, log.InfoLevel, ParseLevel("verbose"))
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, ParseFormatter(""))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"})

	logger.Debug("hidden")
	logger.Info("http request", "status", 201, "path", "/api/todos")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/api/todos", entry["path"])
	assert.EqualValues(t, 201, entry["status"])
}
