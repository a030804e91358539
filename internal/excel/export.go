package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Exporter writes worksheet grids into a new Excel file.
type Exporter struct {
	file       *excelize.File
	floatStyle int
	sheets     int
}

// NewExporter creates an empty workbook in memory.
func NewExporter() *Exporter {
	return &Exporter{file: excelize.NewFile(), floatStyle: -1}
}

// AddSheet writes rows into a new sheet named name. Numeric strings are
// stored as numbers; decimals get a two-place number format.
func (e *Exporter) AddSheet(name string, rows [][]string) error {
	if e.sheets == 0 {
		// Reuse the default sheet so the output has no stray "Sheet1".
		if err := e.file.SetSheetName(e.file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	} else if _, err := e.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	e.sheets++

	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := e.setCellValueSmart(name, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", name, cell, err)
			}
		}
	}
	return nil
}

// SaveAs writes the workbook to path.
func (e *Exporter) SaveAs(path string) error {
	if e.sheets == 0 {
		return fmt.Errorf("no sheets to export")
	}
	return e.file.SaveAs(path)
}

// File exposes the workbook being built.
func (e *Exporter) File() *excelize.File {
	return e.file
}

func (e *Exporter) Close() error {
	return e.file.Close()
}

func (e *Exporter) setCellValueSmart(sheet, cell, value string) error {
	numericValue, isFloat := parseNumericValue(value)
	if err := e.file.SetCellValue(sheet, cell, numericValue); err != nil {
		return err
	}
	if !isFloat {
		return nil
	}

	if e.floatStyle < 0 {
		style, err := e.file.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
		if err != nil {
			return fmt.Errorf("failed to create float style: %w", err)
		}
		e.floatStyle = style
	}
	return e.file.SetCellStyle(sheet, cell, cell, e.floatStyle)
}

// parseNumericValue returns value as int64 or float64 when it parses as a
// number, reporting whether it is a float.
func parseNumericValue(value string) (any, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value, false
	}
	// Leading zeros are identifiers (postcodes, account numbers), not numbers.
	if len(trimmed) > 1 && trimmed[0] == '0' && trimmed[1] != '.' {
		return value, false
	}
	if intVal, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intVal, false
	}
	if floatVal, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(floatVal) && !math.IsInf(floatVal, 0) {
		return floatVal, true
	}
	return value, false
}
