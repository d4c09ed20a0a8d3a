package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel("chatty"))
}

func TestLogger_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: WARN, Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", F("kind", "todos"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown | kind=todos")
	assert.Contains(t, out, "logger_test.go")
}

func TestLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	l.WithFields(F("component", "store")).Error("save failed", F("error", errors.New("disk full")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "save failed", entry["msg"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestLogger_RotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pintask.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 5; i++ {
		l.Info(strings.Repeat("x", 80))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
}

func TestGlobal_NoopWithoutInit(t *testing.T) {
	globalMu.Lock()
	prev := globalLogger
	globalLogger = nil
	globalMu.Unlock()
	defer func() {
		globalMu.Lock()
		globalLogger = prev
		globalMu.Unlock()
	}()

	Info("nobody listening")
	assert.Nil(t, WithFields(F("a", 1)))
	assert.NoError(t, Close())
}
