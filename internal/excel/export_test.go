package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExporter_WritesTypedValues(t *testing.T) {
	e := NewExporter()
	defer e.Close()

	require.NoError(t, e.AddSheet("Data", [][]string{
		{"Name", "Amount", "Zip"},
		{"Ann", "10.5", "007"},
		{"Bob", "7", ""},
	}))
	require.NoError(t, e.AddSheet("Other", [][]string{{"x"}}))

	f := e.File()
	assert.Equal(t, []string{"Data", "Other"}, f.GetSheetList())

	amount, err := f.GetCellValue("Data", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10.50", amount)

	typ, err := f.GetCellType("Data", "B3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	zip, err := f.GetCellValue("Data", "C2")
	require.NoError(t, err)
	assert.Equal(t, "007", zip)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, e.SaveAs(path))
	assert.FileExists(t, path)
}

func TestExporter_NothingToSave(t *testing.T) {
	e := NewExporter()
	defer e.Close()
	assert.Error(t, e.SaveAs(filepath.Join(t.TempDir(), "out.xlsx")))
}

func TestParseNumericValue(t *testing.T) {
	tests := []struct {
		in      string
		want    any
		isFloat bool
	}{
		{"12", int64(12), false},
		{" 3.5 ", 3.5, true},
		{"0.25", 0.25, true},
		{"0", int64(0), false},
		{"0123", "0123", false},
		{"abc", "abc", false},
		{"NaN", "NaN", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, isFloat := parseNumericValue(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.isFloat, isFloat, tt.in)
	}
}
