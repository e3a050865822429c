package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l.Info("dispatch",
		String("tier", "pro"),
		Int("attempt", 1),
		Bool("ok", true),
		Duration("took", 2*time.Second),
		Err(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "dispatch", entry["message"])
	assert.Equal(t, "pro", entry["tier"])
	assert.Equal(t, float64(1), entry["attempt"])
	assert.Equal(t, true, entry["ok"])
	assert.Equal(t, "boom", entry["error"])
}

func TestZerologAdapter_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden", String("k", "v"))

	assert.Zero(t, buf.Len())
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x", String("k", "v"))
		l.Warn("x")
		l.Error("x", Err(errors.New("e")))
	})
}
