package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWritesThroughSlog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	New(base, "kafka", slog.LevelWarn).Printf("dial %s failed", "k1:9092")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "component=kafka")
	assert.Contains(t, out, "dial k1:9092 failed")
}
