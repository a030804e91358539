package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"github.com/xuri/excelize/v2"
)

// Options controls how cells are read.
type Options struct {
	// Recalculate evaluates formulas locally when the workbook has no
	// cached result for them.
	Recalculate bool
}

// Workbook is an opened Excel file exposed as a copy source.
type Workbook struct {
	file   *excelize.File
	path   string
	opts   Options
	sheets map[string]*Sheet
	styles map[int]*sheetcopy.Formatting
}

// Open opens an existing Excel file.
func Open(path string, opts Options) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	wb := FromFile(file, opts)
	wb.path = path
	return wb, nil
}

// FromFile wraps an already opened excelize file.
func FromFile(file *excelize.File, opts Options) *Workbook {
	return &Workbook{
		file:   file,
		opts:   opts,
		sheets: make(map[string]*Sheet),
		styles: make(map[int]*sheetcopy.Formatting),
	}
}

// Opener returns a WorkbookOpener for batch runs.
func Opener(opts Options) sheetcopy.WorkbookOpener {
	return func(path string) (sheetcopy.Workbook, error) {
		wb, err := Open(path, opts)
		if err != nil {
			return nil, err
		}
		return wb, nil
	}
}

// Path returns the file the workbook was opened from, if any.
func (w *Workbook) Path() string {
	return w.path
}

// File exposes the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// SheetNames returns all sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet returns the handle for name. Handles are reused, so header caches
// keyed on them stay valid for the lifetime of the workbook.
func (w *Workbook) Sheet(name string) (sheetcopy.SourceSheet, error) {
	return w.sheet(name)
}

func (w *Workbook) sheet(name string) (*Sheet, error) {
	if s, ok := w.sheets[name]; ok {
		return s, nil
	}
	if idx, err := w.file.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", sheetcopy.ErrSheetNotFound, name)
	}
	s := &Sheet{wb: w, name: name, maxRow: -1}
	w.sheets[name] = s
	return s, nil
}

// Close closes the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheet is one worksheet of a Workbook.
type Sheet struct {
	wb     *Workbook
	name   string
	maxRow int
}

func (s *Sheet) Name() string {
	return s.name
}

// HeaderRow returns the formatted values of row 1.
func (s *Sheet) HeaderRow() ([]string, error) {
	rows, err := s.wb.file.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", s.name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return []string{}, rows.Error()
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row of %q: %w", s.name, err)
	}
	return cols, nil
}

// MaxRow returns the number of the last row present in the sheet.
func (s *Sheet) MaxRow() (int, error) {
	if s.maxRow >= 0 {
		return s.maxRow, nil
	}
	rows, err := s.wb.file.Rows(s.name)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows of %q: %w", s.name, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Error(); err != nil {
		return 0, err
	}
	s.maxRow = count
	return count, nil
}

// RowHidden reports whether row is hidden.
func (s *Sheet) RowHidden(row int) (bool, error) {
	visible, err := s.wb.file.GetRowVisible(s.name, row)
	if err != nil {
		return false, err
	}
	return !visible, nil
}

// Cell reads one cell. Read errors degrade to an empty cell.
func (s *Sheet) Cell(col, row int) sheetcopy.Cell {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheetcopy.Cell{}
	}

	d := s.detect(ref)
	cell := sheetcopy.Cell{Format: s.wb.formatting(s.name, ref)}

	switch d.method {
	case MethodFormulaText, MethodValueMarker:
		cell.Formula = d.formula
	case MethodTypeFlag:
		cell.Formula = sheetcopy.UnreadableFormula
		cell.FormulaUnreadable = true
	}

	if d.method == MethodValueMarker {
		// The "value" is the formula text itself; there is no cached result.
		return s.recalculate(ref, cell)
	}
	cell.Value = typedValue(d.raw, d.formatted, d.cellType)
	if cell.Formula != "" && cell.Value == nil {
		return s.recalculate(ref, cell)
	}
	return cell
}

func (s *Sheet) recalculate(ref string, cell sheetcopy.Cell) sheetcopy.Cell {
	if !s.wb.opts.Recalculate || cell.FormulaUnreadable {
		return cell
	}
	v, err := s.wb.file.CalcCellValue(s.name, ref)
	if err != nil {
		logger.Debug("Formula evaluation failed", "sheet", s.name, "cell", ref, "error", err)
		return cell
	}
	if v != "" {
		cell.Value = typedValue(v, v, excelize.CellTypeUnset)
	}
	return cell
}

// Formula detection methods, in the order they are tried.
const (
	MethodNone        = ""
	MethodFormulaText = "formula-text"
	MethodTypeFlag    = "type-flag"
	MethodValueMarker = "value-marker"
)

type detection struct {
	method    string
	formula   string
	raw       string
	formatted string
	cellType  excelize.CellType
}

// detect reads everything the extractor needs to know about one cell. A
// formula is recognized by its text, by a formula result type, or by a
// stored value that itself starts with "=".
func (s *Sheet) detect(ref string) detection {
	f := s.wb.file
	var d detection

	raw, err := f.GetCellValue(s.name, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		logger.Debug("Failed to read cell", "sheet", s.name, "cell", ref, "error", err)
		return d
	}
	d.raw = raw
	d.formatted, _ = f.GetCellValue(s.name, ref)
	d.cellType, _ = f.GetCellType(s.name, ref)

	if formula, err := f.GetCellFormula(s.name, ref); err == nil && formula != "" {
		d.method = MethodFormulaText
		d.formula = "=" + strings.TrimPrefix(formula, "=")
		return d
	}
	if d.cellType == excelize.CellTypeFormula {
		d.method = MethodTypeFlag
		return d
	}
	if d.cellType == excelize.CellTypeUnset && len(raw) > 1 && raw[0] == '=' {
		d.method = MethodValueMarker
		d.formula = raw
	}
	return d
}

// typedValue converts an excelize cell value into float64, bool or string.
func typedValue(raw, formatted string, typ excelize.CellType) any {
	if raw == "" {
		return nil
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "TRUE")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return formatted
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return formatted
	}
	// Dates and other number formats keep their display text.
	if formatted != raw && formatted != "" {
		if _, err := strconv.ParseFloat(formatted, 64); err != nil {
			return formatted
		}
	}
	return n
}

// SheetOrFirst returns name when it exists, otherwise the first sheet.
func (w *Workbook) SheetOrFirst(name string) (*Sheet, error) {
	s, err := w.sheet(name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sheetcopy.ErrSheetNotFound) {
		return nil, err
	}
	names := w.SheetNames()
	if len(names) == 0 {
		return nil, err
	}
	return w.sheet(names[0])
}
