package sheetcopy

import (
	"context"
	"fmt"
)

// ExtractOptions tunes a single extraction.
type ExtractOptions struct {
	SkipHidden       bool
	HiddenSampleSize int
	WithFormatting   bool
}

// HiddenRows summarizes rows excluded because they were hidden.
type HiddenRows struct {
	Count  int
	Sample []int
}

// Extraction is the Cell Extractor result.
type Extraction struct {
	Rows        []RowRecord
	MaxRow      int
	Scanned     int
	Hidden      HiddenRows
	Unreadable  int // formulas present but without readable text
	MissingCalc int // formulas without a cached result
}

// Extract reads rows startRow..MaxRow of sheet restricted to cols (1-based)
// and keeps the rows that carry real data, in source order.
func Extract(ctx context.Context, sheet SourceSheet, cols []int, startRow int, opts ExtractOptions) (*Extraction, error) {
	if startRow < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStartRow, startRow)
	}
	maxRow, err := sheet.MaxRow()
	if err != nil {
		return nil, fmt.Errorf("failed to determine last row of sheet %q: %w", sheet.Name(), err)
	}

	ext := &Extraction{MaxRow: maxRow}
	if maxRow < startRow {
		return ext, nil
	}

	for row := startRow; row <= maxRow; row++ {
		if row%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ext.Scanned++

		if opts.SkipHidden {
			hidden, err := sheet.RowHidden(row)
			if err == nil && hidden {
				ext.Hidden.Count++
				if len(ext.Hidden.Sample) < opts.HiddenSampleSize {
					ext.Hidden.Sample = append(ext.Hidden.Sample, row)
				}
				continue
			}
		}

		record := RowRecord{SourceRow: row, Cells: make([]Cell, len(cols))}
		for i, col := range cols {
			cell := sheet.Cell(col, row)
			if !opts.WithFormatting {
				cell.Format = nil
			}
			if cell.FormulaUnreadable {
				ext.Unreadable++
			}
			if cell.Formula != "" && cell.Value == nil {
				ext.MissingCalc++
			}
			record.Cells[i] = cell
		}

		if record.HasData() {
			ext.Rows = append(ext.Rows, record)
		}
	}
	return ext, nil
}
