package logging

import (
	"bytes"
	"context"
	"testing"

	"invoice-portal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("invoice_id", "inv-1").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"invoice_id":"inv-1"`)
}

func TestNewWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "loud"}, &buf)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"message":"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info"}, &buf)
	ctx := log.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// No logger attached: must not panic.
	FromContext(context.Background()).Info().Msg("dropped")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", Redact("short"))
	assert.Equal(t, "0f3a...9c", Redact("0f3a1b2c3d4e9c"))
}
