package gsheets

import (
	"testing"

	"sheetPush/internal/sheetcopy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRequest(t *testing.T) {
	req := formatRequest(sheetcopy.FormatRequest{
		SheetID: 0,
		Row:     4,
		Col:     0,
		Format: sheetcopy.Formatting{
			Background:      &sheetcopy.Color{Red: 1, Green: 1},
			Bold:            true,
			FontSize:        10.6,
			HorizontalAlign: "CENTER",
		},
	})
	require.NotNil(t, req)
	rc := req.RepeatCell
	require.NotNil(t, rc)

	assert.Equal(t, int64(0), rc.Range.SheetId)
	assert.Equal(t, int64(4), rc.Range.StartRowIndex)
	assert.Equal(t, int64(5), rc.Range.EndRowIndex)
	assert.Equal(t, int64(0), rc.Range.StartColumnIndex)
	assert.Equal(t, int64(1), rc.Range.EndColumnIndex)
	assert.Contains(t, rc.Range.ForceSendFields, "SheetId")
	assert.Contains(t, rc.Range.ForceSendFields, "StartColumnIndex")

	assert.Equal(t,
		"userEnteredFormat.backgroundColor,userEnteredFormat.textFormat.bold,userEnteredFormat.textFormat.fontSize,userEnteredFormat.horizontalAlignment",
		rc.Fields)

	format := rc.Cell.UserEnteredFormat
	assert.Equal(t, 1.0, format.BackgroundColor.Red)
	assert.Equal(t, 0.0, format.BackgroundColor.Blue)
	assert.True(t, format.TextFormat.Bold)
	assert.Equal(t, int64(11), format.TextFormat.FontSize)
	assert.Equal(t, "CENTER", format.HorizontalAlignment)
}

func TestFormatRequest_AlignmentOnlyHasNoTextFormat(t *testing.T) {
	req := formatRequest(sheetcopy.FormatRequest{Format: sheetcopy.Formatting{VerticalAlign: "TOP"}})
	require.NotNil(t, req)
	assert.Nil(t, req.RepeatCell.Cell.UserEnteredFormat.TextFormat)
	assert.Equal(t, "userEnteredFormat.verticalAlignment", req.RepeatCell.Fields)
}

func TestFormatRequest_Empty(t *testing.T) {
	assert.Nil(t, formatRequest(sheetcopy.FormatRequest{Row: 1, Col: 1}))
}
