package excel

import (
	"strconv"
	"strings"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"github.com/xuri/excelize/v2"
)

var horizontalAlign = map[string]string{
	"left":             "LEFT",
	"center":           "CENTER",
	"centerContinuous": "CENTER",
	"right":            "RIGHT",
}

var verticalAlign = map[string]string{
	"top":    "TOP",
	"center": "MIDDLE",
	"bottom": "BOTTOM",
}

// formatting returns the normalized style of a cell, nil for the default
// style. Results are cached per style index.
func (w *Workbook) formatting(sheet, ref string) *sheetcopy.Formatting {
	idx, err := w.file.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return nil
	}
	if f, ok := w.styles[idx]; ok {
		return f
	}

	style, err := w.file.GetStyle(idx)
	if err != nil {
		logger.Debug("Failed to read style", "sheet", sheet, "cell", ref, "style", idx, "error", err)
		w.styles[idx] = nil
		return nil
	}
	f := convertStyle(style)
	w.styles[idx] = f
	return f
}

func convertStyle(st *excelize.Style) *sheetcopy.Formatting {
	if st == nil {
		return nil
	}
	var f sheetcopy.Formatting

	if st.Fill.Type == "pattern" && st.Fill.Pattern == 1 && len(st.Fill.Color) > 0 {
		f.Background = parseColor(st.Fill.Color[0])
	}
	if st.Font != nil {
		f.Bold = st.Font.Bold
		f.Italic = st.Font.Italic
		f.FontSize = st.Font.Size
		f.FontColor = parseColor(st.Font.Color)
	}
	if st.Alignment != nil {
		f.HorizontalAlign = horizontalAlign[st.Alignment.Horizontal]
		f.VerticalAlign = verticalAlign[st.Alignment.Vertical]
	}

	if f.IsZero() {
		return nil
	}
	return &f
}

// parseColor turns "RRGGBB", "#RRGGBB" or "AARRGGBB" into a color with
// 0..1 components. Theme and indexed colors are not resolved.
func parseColor(s string) *sheetcopy.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil
	}
	return &sheetcopy.Color{
		Red:   float64(v>>16&0xff) / 255,
		Green: float64(v>>8&0xff) / 255,
		Blue:  float64(v&0xff) / 255,
	}
}
