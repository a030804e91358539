package sheetcopy

import (
	"errors"
	"fmt"
)

var (
	ErrColumnCountMismatch = errors.New("source and target column counts differ")
	ErrInvalidStartRow     = errors.New("start row must be a positive integer")
	ErrSheetNotFound       = errors.New("sheet not found in workbook")
	ErrWorksheetNotFound   = errors.New("worksheet not found in destination spreadsheet")
	ErrRateLimited         = errors.New("destination API rate limit exceeded")
	ErrInvalidColumn       = errors.New("invalid column")
)

// ColumnNotFoundError reports a free-text specifier with no matching header.
type ColumnNotFoundError struct {
	Spec string
	Side Side
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in %s sheet header", e.Spec, e.Side)
}
