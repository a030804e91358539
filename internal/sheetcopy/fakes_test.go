package sheetcopy

import (
	"context"
	"fmt"
	"sync"
)

type memSheet struct {
	name   string
	cells  map[[2]int]Cell
	maxRow int
	hidden map[int]bool

	headerReads int
	cellReads   int
}

func newMemSheet(name string) *memSheet {
	return &memSheet{name: name, cells: make(map[[2]int]Cell), hidden: make(map[int]bool)}
}

// setRow sets values starting at column A.
func (s *memSheet) setRow(row int, values ...any) *memSheet {
	for i, v := range values {
		if v == nil {
			continue
		}
		s.cells[[2]int{i + 1, row}] = Cell{Value: v}
	}
	s.maxRow = max(s.maxRow, row)
	return s
}

func (s *memSheet) setCell(col, row int, c Cell) *memSheet {
	s.cells[[2]int{col, row}] = c
	s.maxRow = max(s.maxRow, row)
	return s
}

func (s *memSheet) Name() string { return s.name }

func (s *memSheet) HeaderRow() ([]string, error) {
	s.headerReads++
	var maxCol int
	for k := range s.cells {
		if k[1] == 1 {
			maxCol = max(maxCol, k[0])
		}
	}
	row := make([]string, maxCol)
	for i := range row {
		if c, ok := s.cells[[2]int{i + 1, 1}]; ok && c.Value != nil {
			row[i] = fmt.Sprint(c.Value)
		}
	}
	return row, nil
}

func (s *memSheet) MaxRow() (int, error) { return s.maxRow, nil }

func (s *memSheet) Cell(col, row int) Cell {
	s.cellReads++
	return s.cells[[2]int{col, row}]
}

func (s *memSheet) RowHidden(row int) (bool, error) { return s.hidden[row], nil }

type memWorkbook struct {
	order  []string
	sheets map[string]*memSheet
	closed bool
}

func newMemWorkbook(sheets ...*memSheet) *memWorkbook {
	wb := &memWorkbook{sheets: make(map[string]*memSheet)}
	for _, s := range sheets {
		wb.order = append(wb.order, s.name)
		wb.sheets[s.name] = s
	}
	return wb
}

func (w *memWorkbook) SheetNames() []string { return w.order }

func (w *memWorkbook) Sheet(name string) (SourceSheet, error) {
	s, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return s, nil
}

func (w *memWorkbook) Close() error {
	w.closed = true
	return nil
}

type valueWrite struct {
	Worksheet Worksheet
	Range     string
	Values    [][]any
}

// fakeDest is an in-memory destination spreadsheet.
type fakeDest struct {
	mu         sync.Mutex
	worksheets map[string]Worksheet
	headers    map[string][]string
	writes     []valueWrite
	formats    [][]FormatRequest
	writeErr   error
	formatErr  error

	headerReads int
}

func newFakeDest(titles ...string) *fakeDest {
	d := &fakeDest{worksheets: make(map[string]Worksheet), headers: make(map[string][]string)}
	for i, t := range titles {
		d.worksheets[t] = Worksheet{SheetID: int64(i + 100), Title: t}
	}
	return d
}

func (d *fakeDest) Worksheet(_ context.Context, title string) (Worksheet, error) {
	ws, ok := d.worksheets[title]
	if !ok {
		return Worksheet{}, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
	}
	return ws, nil
}

func (d *fakeDest) HeaderRow(_ context.Context, ws Worksheet) ([]string, error) {
	d.headerReads++
	return d.headers[ws.Title], nil
}

func (d *fakeDest) UpdateValues(_ context.Context, ws Worksheet, a1 string, values [][]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.writes = append(d.writes, valueWrite{Worksheet: ws, Range: a1, Values: values})
	return nil
}

func (d *fakeDest) BatchFormat(_ context.Context, reqs []FormatRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.formatErr != nil {
		return d.formatErr
	}
	d.formats = append(d.formats, reqs)
	return nil
}
