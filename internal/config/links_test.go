package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "links.json")

	links := LoadLinks(path)
	assert.Empty(t, links.Names())

	require.NoError(t, links.Add("reports", "https://docs.google.com/spreadsheets/d/abc/edit"))
	require.NoError(t, links.Add("budget", "xyz"))
	require.NoError(t, links.Add("reports", "https://docs.google.com/spreadsheets/d/def/edit"))

	reloaded := LoadLinks(path)
	assert.Equal(t, []string{"budget", "reports"}, reloaded.Names())
	url, ok := reloaded.Get("reports")
	assert.True(t, ok)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/def/edit", url)

	_, ok = reloaded.Get("missing")
	assert.False(t, ok)
}

func TestLinks_RejectsEmpty(t *testing.T) {
	links := LoadLinks(filepath.Join(t.TempDir(), "links.json"))
	assert.ErrorIs(t, links.Add("", "x"), ErrInvalid)
}

func TestLinks_CorruptFileIsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "links.json", "{not json")
	assert.Empty(t, LoadLinks(path).Names())
}
