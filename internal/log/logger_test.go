package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, level Level) *DefaultLogger {
	l := New(LoggerConfig{Level: level, Output: buf})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, InfoLevel)

	l.Debug("hidden")
	l.Warn("skipping file", "file", "src/a.js", "error", "permission denied")

	assert.Equal(t,
		"[2026-01-02 03:04:05] WARN: skipping file file=src/a.js error=\"permission denied\"\n",
		buf.String())
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, DebugLevel)
	l.SetJSONOutput(true)

	l.Info("analysed", "files", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "analysed", entry["message"])
	assert.Equal(t, "3", entry["files"])
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, ErrorLevel)
	l.Warn("quiet")
	assert.Empty(t, buf.String())

	l.SetLevel(DebugLevel)
	l.Debug("loud")
	assert.Contains(t, buf.String(), "DEBUG: loud")
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "msg", formatMessage("msg"))
	assert.Equal(t, "msg arg=x k=v", formatMessage("msg", "x", "k", "v"))
	assert.Equal(t, "msg", formatMessage("msg", 42, "v"), "non-string keys are dropped")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestIsTerminalOnBuffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestNop(t *testing.T) {
	Nop().Error("nothing happens")
}

func TestSpinnerDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("working", &buf, false)
	s.Start()
	s.Stop()
	assert.Empty(t, buf.String())
}

func TestSpinnerStartStop(t *testing.T) {
	var buf syncBuffer
	s := newSpinner("working", &buf, true)
	s.Start()
	s.Start()
	s.Message("still working")
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))
	assert.Contains(t, out, "working")
}

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
