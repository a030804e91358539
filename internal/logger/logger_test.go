package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestSetOutputFiltersByLevel(t *testing.T) {
	defer SetOutput(&bytes.Buffer{}, slog.LevelInfo)

	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelWarn)
	Info("hidden")
	Warn("Skipped sheet", "sheet", "Лист1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "sheet=Лист1")
}

func TestInitWritesHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	f, err := Init(dir, "debug", "SheetPush run log", "Command: copy")
	require.NoError(t, err)
	Debug("first record")
	require.NoError(t, f.Close())
	SetOutput(&bytes.Buffer{}, slog.LevelInfo)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^run_\d{8}_\d{6}\.log$`, entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SheetPush run log\nCommand: copy\n\n")
	assert.Contains(t, string(data), "first record")
}
