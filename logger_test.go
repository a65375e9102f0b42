package embedpq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_LogQuantize(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.LogQuantize(context.Background(), 100, 300, 30, 8, time.Second, nil)
	l.LogQuantize(context.Background(), 100, 300, 7, 8, 0, errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "quantize completed", lines[0]["msg"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.EqualValues(t, 30, lines[0]["subquantizers"])

	assert.Equal(t, "quantize failed", lines[1]["msg"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_ReadWriteLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogWrite(context.Background(), "a.pq", 10, nil)
	l.LogRead(context.Background(), "a.pq", 5, nil)
	assert.Zero(t, buf.Len(), "debug output must be filtered at info level")

	l.LogRead(context.Background(), "a.pq", 0, errors.New("bad"))
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "read failed", lines[0]["msg"])
	assert.Equal(t, "a.pq", lines[0]["name"])
}

func TestLogger_WithFacade(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, nil))

	_ = quantizeScenario(t, WithLogger(l))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "quantize completed", lines[0]["msg"])
	assert.EqualValues(t, 100, lines[0]["dimension"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogQuantize(context.Background(), 1, 1, 1, 1, 0, errors.New("ignored"))
}
