package sheetcopy

import "context"

// Side identifies which spreadsheet a column specifier is resolved against.
type Side int

const (
	SideSource Side = iota
	SideDestination
)

func (s Side) String() string {
	if s == SideDestination {
		return "destination"
	}
	return "source"
}

// Color is an RGB color with components in the 0..1 range.
type Color struct {
	Red, Green, Blue float64
}

// Formatting is the normalized visual formatting of one cell.
type Formatting struct {
	Background      *Color
	FontColor       *Color
	Bold            bool
	Italic          bool
	FontSize        float64
	HorizontalAlign string // LEFT, CENTER, RIGHT
	VerticalAlign   string // TOP, MIDDLE, BOTTOM
}

// IsZero reports whether f carries no formatting worth transferring.
func (f Formatting) IsZero() bool {
	return f.Background == nil && f.FontColor == nil && !f.Bold && !f.Italic &&
		f.FontSize == 0 && f.HorizontalAlign == "" && f.VerticalAlign == ""
}

// Cell is one source cell as produced by a reader adapter.
//
// Value holds float64, bool or string, or nil for an empty cell. Formula is
// the formula text including the leading "=", empty when the cell has none.
// FormulaUnreadable is set when the reader knows a formula exists but cannot
// expose its text; Formula then carries UnreadableFormula and the writer
// sends Value instead whenever one was cached.
type Cell struct {
	Value             any
	Formula           string
	FormulaUnreadable bool
	Format            *Formatting
}

// HasData reports whether the cell contributes real data to its row.
func (c Cell) HasData() bool {
	if c.Formula != "" {
		return true
	}
	if c.Value == nil {
		return false
	}
	if s, ok := c.Value.(string); ok {
		return s != ""
	}
	return true
}

// RowRecord is one logical source row restricted to the mapped columns.
type RowRecord struct {
	SourceRow int
	Cells     []Cell
}

// HasData reports whether any cell of the row carries a formula or a value.
func (r RowRecord) HasData() bool {
	for _, c := range r.Cells {
		if c.HasData() {
			return true
		}
	}
	return false
}

// ColumnMapping pairs source column specifiers with destination specifiers.
type ColumnMapping struct {
	Source []string `toml:"source" yaml:"source" json:"source"`
	Target []string `toml:"target" yaml:"target" json:"target"`
}

// SheetPair is one entry of an ordered sheet mapping.
type SheetPair struct {
	Source string `toml:"source" yaml:"source" json:"source"`
	Target string `toml:"target" yaml:"target" json:"target"`
}

// FileJob describes one batch entry: a workbook, the sheet to read, the
// destination worksheet and its column mapping.
type FileJob struct {
	Path        string
	SourceSheet string
	TargetSheet string
	Columns     ColumnMapping
	StartRow    int
}

// SourceSheet is a read-only view over one worksheet of a source workbook.
// Rows and columns are 1-based. Cell never fails: unreadable cells degrade
// to an empty Cell.
type SourceSheet interface {
	Name() string
	HeaderRow() ([]string, error)
	MaxRow() (int, error)
	Cell(col, row int) Cell
	RowHidden(row int) (bool, error)
}

// Workbook is an opened source workbook.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (SourceSheet, error)
	Close() error
}

// WorkbookOpener opens a workbook by path.
type WorkbookOpener func(path string) (Workbook, error)

// Worksheet identifies one worksheet of the destination spreadsheet.
type Worksheet struct {
	SheetID int64
	Title   string
}

// FormatRequest applies Format to a single destination cell. Row and Col are
// 0-based, as the destination API expects.
type FormatRequest struct {
	SheetID int64
	Row     int
	Col     int
	Format  Formatting
}

// Destination is the remote spreadsheet the engine writes to.
type Destination interface {
	Worksheet(ctx context.Context, title string) (Worksheet, error)
	HeaderRow(ctx context.Context, ws Worksheet) ([]string, error)
	// UpdateValues writes a dense matrix to an A1 range with server-side
	// formula evaluation.
	UpdateValues(ctx context.Context, ws Worksheet, a1Range string, values [][]any) error
	BatchFormat(ctx context.Context, requests []FormatRequest) error
}
