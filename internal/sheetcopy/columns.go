package sheetcopy

import (
	"fmt"
	"strings"
)

// MaxColumns is the widest column index accepted (ZZZ).
const MaxColumns = 18278

// ColumnToIndex converts a column letter sequence to a 1-based index.
func ColumnToIndex(column string) (int, error) {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return 0, fmt.Errorf("%w: empty column name", ErrInvalidColumn)
	}
	result := 0
	for _, char := range column {
		if char < 'A' || char > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
		}
		result = result*26 + int(char-'A'+1)
		if result > MaxColumns {
			return 0, fmt.Errorf("%w: %q exceeds %d columns", ErrInvalidColumn, column, MaxColumns)
		}
	}
	return result, nil
}

// IndexToColumn converts a 1-based column index to its letter form.
func IndexToColumn(index int) (string, error) {
	if index < 1 || index > MaxColumns {
		return "", fmt.Errorf("%w: index %d out of range", ErrInvalidColumn, index)
	}
	result := ""
	for i := index - 1; i >= 0; i = i/26 - 1 {
		result = string(rune('A'+i%26)) + result
	}
	return result, nil
}

func mustColumn(index int) string {
	name, err := IndexToColumn(index)
	if err != nil {
		panic(err)
	}
	return name
}

// CellName returns the A1 name of a 1-based column/row pair.
func CellName(col, row int) string {
	return fmt.Sprintf("%s%d", mustColumn(col), row)
}

// A1Range builds a quoted sheet range such as 'My Sheet'!B2:D9.
func A1Range(sheet string, firstCol, firstRow, lastCol, lastRow int) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	return fmt.Sprintf("%s!%s:%s", quoted, CellName(firstCol, firstRow), CellName(lastCol, lastRow))
}
