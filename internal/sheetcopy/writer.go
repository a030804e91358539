package sheetcopy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultFormatBatchSize = 100
	MaxFormatBatchSize     = 500
	DefaultFormatPause     = 500 * time.Millisecond
)

// WriteResult reports what a Write call did.
type WriteResult struct {
	RowsWritten      int
	Range            string
	FormatRequested  int
	FormatApplied    int
	FormatBatches    int
	FormatIncomplete bool
	FormatErr        error
}

// Writer pushes extracted rows to a destination worksheet.
type Writer struct {
	dest       Destination
	translator *Translator
	batchSize  int
	pause      time.Duration
}

func NewWriter(dest Destination, translator *Translator, batchSize int, pause time.Duration) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultFormatBatchSize
	}
	if batchSize > MaxFormatBatchSize {
		batchSize = MaxFormatBatchSize
	}
	if translator == nil {
		translator = NewTranslator(DefaultFunctionNames)
	}
	return &Writer{dest: dest, translator: translator, batchSize: batchSize, pause: pause}
}

// Write overwrites the bounding rectangle of targetCols × the dense row block
// starting at startRow with one bulk value call, then applies formatting.
// targetCols are 1-based indexes aligned with each row's cells.
func (w *Writer) Write(ctx context.Context, ws Worksheet, targetCols []int, rows []RowRecord, startRow int) (*WriteResult, error) {
	if len(rows) == 0 {
		return &WriteResult{}, nil
	}
	if len(targetCols) == 0 {
		return nil, fmt.Errorf("%w: no target columns", ErrInvalidColumn)
	}

	minCol, maxCol := targetCols[0], targetCols[0]
	for _, c := range targetCols {
		minCol = min(minCol, c)
		maxCol = max(maxCol, c)
	}
	width := maxCol - minCol + 1
	lastRow := startRow + len(rows) - 1

	matrix := make([][]any, len(rows))
	var formats []FormatRequest
	for r, row := range rows {
		line := make([]any, width)
		for i := range line {
			line[i] = ""
		}
		for i, col := range targetCols {
			if i >= len(row.Cells) {
				break
			}
			cell := row.Cells[i]
			line[col-minCol] = w.cellValue(cell)
			if cell.Format != nil && !cell.Format.IsZero() {
				formats = append(formats, FormatRequest{
					SheetID: ws.SheetID,
					Row:     startRow + r - 1,
					Col:     col - 1,
					Format:  *cell.Format,
				})
			}
		}
		matrix[r] = line
	}

	a1 := A1Range(ws.Title, minCol, startRow, maxCol, lastRow)
	if err := w.dest.UpdateValues(ctx, ws, a1, matrix); err != nil {
		return nil, fmt.Errorf("failed to write range %s: %w", a1, err)
	}

	result := &WriteResult{
		RowsWritten:     len(rows),
		Range:           a1,
		FormatRequested: len(formats),
	}
	w.applyFormats(ctx, formats, result)
	return result, nil
}

func (w *Writer) cellValue(c Cell) any {
	if c.FormulaUnreadable && c.Value != nil {
		return c.Value
	}
	if c.Formula != "" {
		return w.translator.Translate(c.Formula)
	}
	if c.Value == nil {
		return ""
	}
	return c.Value
}

// applyFormats submits formats in batches. Any failure stops the remaining
// batches; values already written stay.
func (w *Writer) applyFormats(ctx context.Context, formats []FormatRequest, result *WriteResult) {
	if len(formats) == 0 {
		return
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if w.pause > 0 {
		limiter = rate.NewLimiter(rate.Every(w.pause), 1)
	}

	for start := 0; start < len(formats); start += w.batchSize {
		end := min(start+w.batchSize, len(formats))
		if err := limiter.Wait(ctx); err != nil {
			result.FormatIncomplete = true
			result.FormatErr = err
			return
		}
		if err := w.dest.BatchFormat(ctx, formats[start:end]); err != nil {
			result.FormatIncomplete = true
			result.FormatErr = err
			return
		}
		result.FormatBatches++
		result.FormatApplied += end - start
	}
}

// IsRateLimited reports whether err came from destination throttling.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
