package gsheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", "1AbC-d_9"},
		{"https://docs.google.com/spreadsheets/d/1AbC/", "1AbC"},
		{"https://docs.google.com/open?id=XyZ_12", "XyZ_12"},
		{"  1AbC-d_9  ", "1AbC-d_9"},
	}
	for _, tt := range tests {
		got, err := ExtractSpreadsheetID(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestExtractSpreadsheetID_Invalid(t *testing.T) {
	for _, ref := range []string{"", "https://example.com/some page", "not an id!"} {
		_, err := ExtractSpreadsheetID(ref)
		assert.Error(t, err, ref)
	}
}

func TestSpreadsheetURL(t *testing.T) {
	id, err := ExtractSpreadsheetID(SpreadsheetURL("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}
