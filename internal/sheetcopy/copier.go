package sheetcopy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sheetPush/internal/logger"
)

// State is the phase of one sheet-to-sheet copy.
type State int

const (
	StateIdle State = iota
	StateResolvingColumns
	StateExtracting
	StateTranslating
	StateWriting
	StateDone
	StateFailed
)

var stateNames = [...]string{"idle", "resolving-columns", "extracting", "translating", "writing", "done", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options configures a Copier.
type Options struct {
	CopyFormatting   bool
	SkipHidden       bool
	HiddenSampleSize int
	FormatBatchSize  int
	FormatPause      time.Duration
	Functions        []FunctionName
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		CopyFormatting:   true,
		HiddenSampleSize: 10,
		FormatBatchSize:  DefaultFormatBatchSize,
		FormatPause:      DefaultFormatPause,
		Functions:        DefaultFunctionNames,
	}
}

// SheetResult is the outcome of one sheet pair.
type SheetResult struct {
	Source      string
	Target      string
	State       State // StateDone or StateFailed once finished
	FailedIn    State // phase that failed, when State is StateFailed
	RowsWritten int
	Skipped     bool
	Err         error
	Write       *WriteResult
}

// Summary aggregates a single-file or batch run.
type Summary struct {
	Results   []SheetResult
	Succeeded int
	Skipped   int
	Failed    int
	Rows      int
}

func (s *Summary) add(r SheetResult) {
	s.Results = append(s.Results, r)
	switch {
	case r.Skipped:
		s.Skipped++
	case r.Err != nil:
		s.Failed++
	default:
		s.Succeeded++
		s.Rows += r.RowsWritten
	}
}

// Copier drives copies from source sheets into a destination spreadsheet.
// It runs one sheet pair at a time and is not safe for concurrent use.
type Copier struct {
	dest     Destination
	resolver *Resolver
	writer   *Writer
	opts     Options
	report   reporter
}

func NewCopier(dest Destination, obs Observer, opts Options) *Copier {
	if obs == nil {
		obs = nopObserver{}
	}
	if opts.Functions == nil {
		opts.Functions = DefaultFunctionNames
	}
	return &Copier{
		dest:     dest,
		resolver: NewResolver(),
		writer:   NewWriter(dest, NewTranslator(opts.Functions), opts.FormatBatchSize, opts.FormatPause),
		opts:     opts,
		report:   reporter{obs: obs},
	}
}

// Resolver exposes the header cache owned by the copier.
func (c *Copier) Resolver() *Resolver {
	return c.resolver
}

// CopySheet copies one source sheet into one destination worksheet.
func (c *Copier) CopySheet(ctx context.Context, src SourceSheet, ws Worksheet, columns ColumnMapping, startRow int) SheetResult {
	res := SheetResult{Source: src.Name(), Target: ws.Title, State: StateIdle}
	enter := func(state State) {
		res.State = state
		logger.Debug("Sheet copy state", "source", res.Source, "target", res.Target, "state", state.String())
	}
	fail := func(state State, err error) SheetResult {
		res.FailedIn = state
		res.Err = err
		enter(StateFailed)
		logger.Error("Sheet copy failed", "source", res.Source, "target", res.Target, "phase", state.String(), "error", err)
		return res
	}

	if startRow < 1 {
		return fail(StateResolvingColumns, fmt.Errorf("%w: %d", ErrInvalidStartRow, startRow))
	}

	started := time.Now()
	enter(StateResolvingColumns)
	srcCols, err := c.resolver.ResolveIndexes(ctx, SideSource, SourceHeaders{Sheet: src}, columns.Source)
	if err != nil {
		return fail(StateResolvingColumns, err)
	}
	dstCols, err := c.resolver.ResolveIndexes(ctx, SideDestination, DestinationHeaders{Dest: c.dest, Worksheet: ws}, columns.Target)
	if err != nil {
		return fail(StateResolvingColumns, err)
	}
	if len(srcCols) != len(dstCols) {
		return fail(StateResolvingColumns, fmt.Errorf("%w: %d source vs %d target", ErrColumnCountMismatch, len(srcCols), len(dstCols)))
	}
	if len(srcCols) == 0 {
		return fail(StateResolvingColumns, fmt.Errorf("%w: column mapping is empty", ErrInvalidColumn))
	}
	c.report.info("Columns: %s → %s", letters(srcCols), letters(dstCols))

	enter(StateExtracting)
	ext, err := Extract(ctx, src, srcCols, startRow, ExtractOptions{
		SkipHidden:       c.opts.SkipHidden,
		HiddenSampleSize: c.opts.HiddenSampleSize,
		WithFormatting:   c.opts.CopyFormatting,
	})
	if err != nil {
		return fail(StateExtracting, err)
	}
	if ext.MaxRow < startRow {
		c.report.info("Sheet %q ends at row %d, before start row %d: nothing to copy", src.Name(), ext.MaxRow, startRow)
		enter(StateDone)
		return res
	}
	c.report.info("Read %d rows from %q, %d with data", ext.Scanned, src.Name(), len(ext.Rows))
	if ext.Hidden.Count > 0 {
		c.report.warn("Skipped %d hidden rows (first: %v)", ext.Hidden.Count, ext.Hidden.Sample)
	}
	if ext.Unreadable > 0 {
		c.report.warn("%d formula cells had no readable text; wrote %s instead", ext.Unreadable, UnreadableFormula)
	}
	if ext.MissingCalc > 0 {
		c.report.warn("%d formula cells have no cached result; the destination will evaluate the formula", ext.MissingCalc)
	}
	if len(ext.Rows) == 0 {
		c.report.warn("No data to copy from %q", src.Name())
		enter(StateDone)
		return res
	}

	// Formulas are translated inline while the writer assembles the matrix.
	enter(StateTranslating)
	enter(StateWriting)
	wr, err := c.writer.Write(ctx, ws, dstCols, ext.Rows, startRow)
	if err != nil {
		return fail(StateWriting, err)
	}
	res.Write = wr
	res.RowsWritten = wr.RowsWritten
	c.report.info("Wrote %d rows to %s in %.2fs", wr.RowsWritten, wr.Range, time.Since(started).Seconds())

	if wr.FormatIncomplete {
		reason := "error"
		if IsRateLimited(wr.FormatErr) {
			reason = "rate limit"
		}
		c.report.warn("Formatting stopped after %d of %d cells (%s: %v); values were kept",
			wr.FormatApplied, wr.FormatRequested, reason, wr.FormatErr)
	} else if wr.FormatRequested > 0 {
		c.report.info("Formatted %d cells in %d batches", wr.FormatApplied, wr.FormatBatches)
	}

	enter(StateDone)
	return res
}

// CopyWorkbook copies every sheet pair of mapping from wb using one column
// mapping. Missing sheets on either side are skipped; a failed pair does
// not stop the run.
func (c *Copier) CopyWorkbook(ctx context.Context, wb Workbook, mapping []SheetPair, columns ColumnMapping, startRow int) (*Summary, error) {
	c.resolver.Clear()
	summary := &Summary{}
	total := len(mapping)

	for i, pair := range mapping {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		c.report.info("Processing sheet %q → %q", pair.Source, pair.Target)
		res := c.copyPair(ctx, wb, pair.Source, pair.Target, columns, startRow)
		summary.add(res)
		c.report.progress(i+1, total, pair.Source)
	}

	c.report.info("Done: %d copied, %d skipped, %d failed, %d rows", summary.Succeeded, summary.Skipped, summary.Failed, summary.Rows)
	return summary, nil
}

func (c *Copier) copyPair(ctx context.Context, wb Workbook, source, target string, columns ColumnMapping, startRow int) SheetResult {
	src, err := wb.Sheet(source)
	if err != nil {
		if errors.Is(err, ErrSheetNotFound) {
			c.report.warn("Sheet %q not found in workbook, skipping", source)
			return SheetResult{Source: source, Target: target, Skipped: true, Err: err}
		}
		c.report.error("Failed to read sheet %q: %v", source, err)
		return SheetResult{Source: source, Target: target, State: StateFailed, FailedIn: StateIdle, Err: err}
	}
	ws, err := c.dest.Worksheet(ctx, target)
	if err != nil {
		if errors.Is(err, ErrWorksheetNotFound) {
			c.report.warn("Worksheet %q not found in destination spreadsheet, skipping", target)
			return SheetResult{Source: source, Target: target, Skipped: true, Err: err}
		}
		c.report.error("Failed to open worksheet %q: %v", target, err)
		return SheetResult{Source: source, Target: target, State: StateFailed, FailedIn: StateIdle, Err: err}
	}

	res := c.CopySheet(ctx, src, ws, columns, startRow)
	if res.Err != nil {
		c.report.error("Sheet %q failed during %s: %v", source, res.FailedIn, res.Err)
		return res
	}
	c.report.info("Sheet %q done, rows copied: %d", source, res.RowsWritten)
	return res
}

// CopyFiles runs each batch job in order, opening each workbook with open.
// The header cache is cleared before every file.
func (c *Copier) CopyFiles(ctx context.Context, open WorkbookOpener, jobs []FileJob) (*Summary, error) {
	summary := &Summary{}
	total := len(jobs)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		name := filepath.Base(job.Path)
		c.resolver.Clear()
		c.report.info("Processing %s → %s", name, job.TargetSheet)
		summary.add(c.copyFile(ctx, open, job))
		c.report.progress(i+1, total, name)
	}

	c.report.info("Batch done: %d copied, %d skipped, %d failed, %d rows", summary.Succeeded, summary.Skipped, summary.Failed, summary.Rows)
	return summary, nil
}

func (c *Copier) copyFile(ctx context.Context, open WorkbookOpener, job FileJob) SheetResult {
	if _, err := os.Stat(job.Path); err != nil {
		c.report.warn("File not found: %s", job.Path)
		return SheetResult{Source: job.Path, Target: job.TargetSheet, Skipped: true, Err: err}
	}

	wb, err := open(job.Path)
	if err != nil {
		c.report.error("Failed to open %s: %v", job.Path, err)
		return SheetResult{Source: job.Path, Target: job.TargetSheet, State: StateFailed, FailedIn: StateIdle, Err: err}
	}
	defer wb.Close()

	sheetName := job.SourceSheet
	if !contains(wb.SheetNames(), sheetName) {
		names := wb.SheetNames()
		if len(names) == 0 {
			c.report.warn("Workbook %s has no sheets, skipping", job.Path)
			return SheetResult{Source: job.Path, Target: job.TargetSheet, Skipped: true, Err: ErrSheetNotFound}
		}
		sheetName = names[0]
		c.report.info("Using sheet %q", sheetName)
	}

	return c.copyPair(ctx, wb, sheetName, job.TargetSheet, job.Columns, job.StartRow)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func letters(cols []int) string {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = mustColumn(col)
	}
	return strings.Join(names, ",")
}
