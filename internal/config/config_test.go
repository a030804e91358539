package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sheetPush/internal/sheetcopy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[google]
spreadsheet = "https://docs.google.com/spreadsheets/d/abc123/edit"

[copy]
start_row = 2
format_batch_size = 900

[copy.columns]
source = ["Name", "C-E"]
target = ["A", "B", "C", "D"]

[[sheets]]
source = "Sheet1"
target = "Лист1"

[[sheets]]
source = "Sheet2"
target = "Лист2"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Copy.StartRow)
	assert.True(t, cfg.Copy.CopyFormatting)
	assert.Equal(t, sheetcopy.MaxFormatBatchSize, cfg.Copy.FormatBatchSize)
	assert.Equal(t, 60, cfg.Google.TimeoutSeconds)
	assert.Equal(t, []string{"Name", "C-E"}, cfg.Copy.Columns.Source)
	assert.Equal(t, []sheetcopy.SheetPair{
		{Source: "Sheet1", Target: "Лист1"},
		{Source: "Sheet2", Target: "Лист2"},
	}, cfg.Sheets)
	assert.Equal(t, "logs", cfg.Log.Directory)
}

func TestLoad_RejectsInvalidStartRow(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[copy]\nstart_row = 0\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_RejectsIncompleteSheetPair(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[[sheets]]\nsource = \"Sheet1\"\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[copy\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTripsSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Sheets = []sheetcopy.SheetPair{{Source: "Data", Target: "Import"}}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Sheets, loaded.Sheets)
}

func TestCopyOptions(t *testing.T) {
	cfg := Default()
	cfg.Copy.SkipHiddenRows = true
	cfg.Copy.FormatPauseMS = 250
	cfg.Copy.CopyFormatting = false

	opts := cfg.CopyOptions()
	assert.True(t, opts.SkipHidden)
	assert.False(t, opts.CopyFormatting)
	assert.Equal(t, 250*time.Millisecond, opts.FormatPause)
	assert.Equal(t, 10, opts.HiddenSampleSize)
	assert.Equal(t, time.Minute, cfg.Timeout())
}

func TestCredentialsPath(t *testing.T) {
	cfg := Default()
	t.Setenv("SHEETPUSH_CREDENTIALS", "")
	assert.Equal(t, "configs/credentials.json", cfg.CredentialsPath())

	t.Setenv("SHEETPUSH_CREDENTIALS", "/secrets/sa.json")
	assert.Equal(t, "/secrets/sa.json", cfg.CredentialsPath())
}
