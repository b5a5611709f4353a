package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := WithComponent("invoices")
	l.Debug().Str("id", "inv-1").Msg("added")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "invoices", line["component"])
	assert.Equal(t, "inv-1", line["id"])
	assert.Equal(t, "debug", line["level"])
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Config{Level: "WARN", Format: "json", Output: &buf}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := WithComponent("x")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestSetup_BadLevel(t *testing.T) {
	err := Setup(Config{Level: "loud"})
	assert.Error(t, err)
}
