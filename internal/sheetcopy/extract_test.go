package sheetcopy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_RowCompaction(t *testing.T) {
	sheet := newMemSheet("Data").
		setRow(2, "alpha", 1.0).
		setRow(4, "beta", 2.0)
	sheet.maxRow = 4

	ext, err := Extract(context.Background(), sheet, []int{1, 2}, 1, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, ext.Rows, 2)
	assert.Equal(t, 2, ext.Rows[0].SourceRow)
	assert.Equal(t, 4, ext.Rows[1].SourceRow)
	assert.Equal(t, 4, ext.Scanned)
}

func TestExtract_StartRowBeyondMaxRow(t *testing.T) {
	sheet := newMemSheet("Data").setRow(1, "h")
	ext, err := Extract(context.Background(), sheet, []int{1}, 5, ExtractOptions{})
	require.NoError(t, err)
	assert.Empty(t, ext.Rows)
	assert.Equal(t, 1, ext.MaxRow)
	assert.Zero(t, sheet.cellReads)
}

func TestExtract_InvalidStartRow(t *testing.T) {
	_, err := Extract(context.Background(), newMemSheet("Data"), []int{1}, 0, ExtractOptions{})
	assert.ErrorIs(t, err, ErrInvalidStartRow)
}

func TestExtract_EmptyStringIsNotData(t *testing.T) {
	sheet := newMemSheet("Data").
		setRow(1, "", "").
		setRow(2, "", "x")
	ext, err := Extract(context.Background(), sheet, []int{1, 2}, 1, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, ext.Rows, 1)
	assert.Equal(t, 2, ext.Rows[0].SourceRow)
}

func TestExtract_FormulaOnlyRowIsData(t *testing.T) {
	sheet := newMemSheet("Data").setCell(1, 3, Cell{Formula: "=СУММ(B1:B2)"})
	ext, err := Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, ext.Rows, 1)
	assert.Equal(t, 1, ext.MissingCalc)
}

func TestExtract_CountsUnreadableFormulas(t *testing.T) {
	sheet := newMemSheet("Data").
		setCell(1, 1, Cell{Formula: UnreadableFormula, FormulaUnreadable: true, Value: 3.0})
	ext, err := Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, ext.Unreadable)
	assert.Zero(t, ext.MissingCalc)
}

func TestExtract_HiddenRows(t *testing.T) {
	sheet := newMemSheet("Data")
	for row := 1; row <= 6; row++ {
		sheet.setRow(row, row)
	}
	sheet.hidden[2] = true
	sheet.hidden[4] = true
	sheet.hidden[5] = true

	ext, err := Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{SkipHidden: true, HiddenSampleSize: 2})
	require.NoError(t, err)
	assert.Len(t, ext.Rows, 3)
	assert.Equal(t, 3, ext.Hidden.Count)
	assert.Equal(t, []int{2, 4}, ext.Hidden.Sample)

	ext, err = Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{})
	require.NoError(t, err)
	assert.Len(t, ext.Rows, 6)
	assert.Zero(t, ext.Hidden.Count)
}

func TestExtract_DropsFormattingUnlessRequested(t *testing.T) {
	sheet := newMemSheet("Data").setCell(1, 1, Cell{Value: "x", Format: &Formatting{Bold: true}})

	ext, err := Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{})
	require.NoError(t, err)
	assert.Nil(t, ext.Rows[0].Cells[0].Format)

	ext, err = Extract(context.Background(), sheet, []int{1}, 1, ExtractOptions{WithFormatting: true})
	require.NoError(t, err)
	require.NotNil(t, ext.Rows[0].Cells[0].Format)
	assert.True(t, ext.Rows[0].Cells[0].Format.Bold)
}

func TestExtract_ColumnOrderFollowsMapping(t *testing.T) {
	sheet := newMemSheet("Data").setRow(1, "a", "b", "c")
	ext, err := Extract(context.Background(), sheet, []int{3, 1}, 1, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, ext.Rows, 1)
	assert.Equal(t, "c", ext.Rows[0].Cells[0].Value)
	assert.Equal(t, "a", ext.Rows[0].Cells[1].Value)
}
