package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production", "debug")
	log.Debug().Str("event_id", "e1").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "e1", line["event_id"])
	assert.Equal(t, "debug", line["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production", "warn")
	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log = NewWithWriter(&buf, "production", "bogus")
	log.Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
