package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellReport describes how a single cell was classified.
type CellReport struct {
	Ref       string
	Method    string // one of the Method constants
	Formula   string
	Cached    string
	HasCached bool
}

// InspectReport summarizes formula detection over a block of a sheet.
type InspectReport struct {
	Sheet       string
	Cells       []CellReport
	Formulas    int
	Unreadable  int
	MissingCalc int
}

// Inspect classifies every non-empty cell of the first rows rows of sheet
// (all columns up to cols).
func (w *Workbook) Inspect(sheet string, rows, cols int) (*InspectReport, error) {
	s, err := w.sheet(sheet)
	if err != nil {
		return nil, err
	}
	maxRow, err := s.MaxRow()
	if err != nil {
		return nil, err
	}

	report := &InspectReport{Sheet: sheet}
	for row := 1; row <= min(rows, maxRow); row++ {
		for col := 1; col <= cols; col++ {
			ref, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			d := s.detect(ref)
			if d.method == MethodNone && d.raw == "" {
				continue
			}

			cr := CellReport{Ref: ref, Method: d.method, Formula: d.formula}
			if d.method != MethodValueMarker {
				cr.Cached = d.formatted
				cr.HasCached = d.raw != ""
			}
			if d.method != MethodNone {
				report.Formulas++
				if d.method == MethodTypeFlag {
					report.Unreadable++
				}
				if !cr.HasCached {
					report.MissingCalc++
				}
			}
			report.Cells = append(report.Cells, cr)
		}
	}
	return report, nil
}

func (c CellReport) String() string {
	switch c.Method {
	case MethodNone:
		return fmt.Sprintf("%s: value=%q", c.Ref, c.Cached)
	case MethodTypeFlag:
		return fmt.Sprintf("%s: formula present, text unreadable, cached=%q", c.Ref, c.Cached)
	}
	cached := "no cached value"
	if c.HasCached {
		cached = fmt.Sprintf("cached=%q", c.Cached)
	}
	return fmt.Sprintf("%s: %s (%s), %s", c.Ref, c.Formula, c.Method, cached)
}
