package gsheets

import (
	"math"
	"strings"

	"sheetPush/internal/sheetcopy"

	"google.golang.org/api/sheets/v4"
)

// formatRequest converts one cell format into a repeatCell request whose
// field mask covers only the properties that are set.
func formatRequest(r sheetcopy.FormatRequest) *sheets.Request {
	f := r.Format
	format := &sheets.CellFormat{}
	text := &sheets.TextFormat{}
	var fields []string
	hasText := false

	if f.Background != nil {
		format.BackgroundColor = color(f.Background)
		fields = append(fields, "backgroundColor")
	}
	if f.Bold {
		text.Bold = true
		hasText = true
		fields = append(fields, "textFormat.bold")
	}
	if f.Italic {
		text.Italic = true
		hasText = true
		fields = append(fields, "textFormat.italic")
	}
	if f.FontSize > 0 {
		text.FontSize = int64(math.Round(f.FontSize))
		hasText = true
		fields = append(fields, "textFormat.fontSize")
	}
	if f.FontColor != nil {
		text.ForegroundColor = color(f.FontColor)
		hasText = true
		fields = append(fields, "textFormat.foregroundColor")
	}
	if f.HorizontalAlign != "" {
		format.HorizontalAlignment = f.HorizontalAlign
		fields = append(fields, "horizontalAlignment")
	}
	if f.VerticalAlign != "" {
		format.VerticalAlignment = f.VerticalAlign
		fields = append(fields, "verticalAlignment")
	}
	if len(fields) == 0 {
		return nil
	}
	if hasText {
		format.TextFormat = text
	}

	for i, field := range fields {
		fields[i] = "userEnteredFormat." + field
	}
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          r.SheetID,
				StartRowIndex:    int64(r.Row),
				EndRowIndex:      int64(r.Row) + 1,
				StartColumnIndex: int64(r.Col),
				EndColumnIndex:   int64(r.Col) + 1,
				ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: strings.Join(fields, ","),
		},
	}
}

func color(c *sheetcopy.Color) *sheets.Color {
	return &sheets.Color{
		Red:             c.Red,
		Green:           c.Green,
		Blue:            c.Blue,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}
}
