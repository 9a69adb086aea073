package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, parseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, parseLevel("error"))
	assert.Equal(t, log.InfoLevel, parseLevel("nonsense"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")
	logger.Info("contact added", "id", "c1")
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "contact added", entry["msg"])
	assert.Equal(t, "c1", entry["id"])
}
