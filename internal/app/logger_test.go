package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONFormatCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json"}, "commune-api")
	logger.Info("listening")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "commune-api", record["service"])
	assert.Equal(t, "listening", record["msg"])
}

func TestLoggerDefaultFormatIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "pretty"}, "commune-worker")
	logger.Info("listening")

	line := strings.TrimSpace(buf.String())
	assert.False(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, "service=commune-worker")
}
