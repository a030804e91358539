package sheetcopy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HeaderSource exposes the first row of a sheet. Values used as cache keys
// must be comparable; sheet handles and small structs of them are.
type HeaderSource interface {
	HeaderRow(ctx context.Context) ([]string, error)
}

// SourceHeaders adapts a SourceSheet to HeaderSource.
type SourceHeaders struct {
	Sheet SourceSheet
}

func (s SourceHeaders) HeaderRow(context.Context) ([]string, error) {
	return s.Sheet.HeaderRow()
}

// DestinationHeaders adapts a destination worksheet to HeaderSource.
type DestinationHeaders struct {
	Dest      Destination
	Worksheet Worksheet
}

func (d DestinationHeaders) HeaderRow(ctx context.Context) ([]string, error) {
	return d.Dest.HeaderRow(ctx, d.Worksheet)
}

// Resolver maps column specifiers to 1-based column indexes. Header rows are
// read lazily, once per sheet handle, and cached until Clear is called.
type Resolver struct {
	headers map[HeaderSource]map[string]int
	reads   int
}

func NewResolver() *Resolver {
	return &Resolver{headers: make(map[HeaderSource]map[string]int)}
}

// Clear drops every cached header row. Call it whenever a new source file
// is opened.
func (r *Resolver) Clear() {
	r.headers = make(map[HeaderSource]map[string]int)
}

// HeaderReads returns how many header rows were fetched since creation.
func (r *Resolver) HeaderReads() int {
	return r.reads
}

// Resolve returns the column letters for specs, in order, with ranges
// expanded.
func (r *Resolver) Resolve(ctx context.Context, side Side, src HeaderSource, specs []string) ([]string, error) {
	indexes, err := r.ResolveIndexes(ctx, side, src, specs)
	if err != nil {
		return nil, err
	}
	letters := make([]string, len(indexes))
	for i, idx := range indexes {
		letters[i] = mustColumn(idx)
	}
	return letters, nil
}

// ResolveIndexes is Resolve returning 1-based indexes. Empty specifiers are
// skipped.
func (r *Resolver) ResolveIndexes(ctx context.Context, side Side, src HeaderSource, specs []string) ([]int, error) {
	var result []int
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		cols, err := r.resolveOne(ctx, side, src, spec)
		if err != nil {
			return nil, err
		}
		result = append(result, cols...)
	}
	return result, nil
}

func (r *Resolver) resolveOne(ctx context.Context, side Side, src HeaderSource, spec string) ([]int, error) {
	if lo, hi, ok := splitRange(spec); ok {
		cols, err := r.resolveRange(ctx, side, src, lo, hi)
		if err == nil {
			return cols, nil
		}
		// "Net-Revenue" is a header, not a range.
		var notFound *ColumnNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		if idx, lookupErr := r.lookupHeader(ctx, side, src, spec); lookupErr == nil {
			return []int{idx}, nil
		}
		return nil, err
	}

	idx, err := r.resolveSingle(ctx, side, src, spec)
	if err != nil {
		return nil, err
	}
	return []int{idx}, nil
}

func (r *Resolver) resolveRange(ctx context.Context, side Side, src HeaderSource, lo, hi string) ([]int, error) {
	start, err := r.resolveSingle(ctx, side, src, lo)
	if err != nil {
		return nil, err
	}
	end, err := r.resolveSingle(ctx, side, src, hi)
	if err != nil {
		return nil, err
	}

	step := 1
	if end < start {
		step = -1
	}
	cols := make([]int, 0, abs(end-start)+1)
	for i := start; ; i += step {
		cols = append(cols, i)
		if i == end {
			break
		}
	}
	return cols, nil
}

func (r *Resolver) resolveSingle(ctx context.Context, side Side, src HeaderSource, spec string) (int, error) {
	if isDigits(spec) {
		n, err := strconv.Atoi(spec)
		if err != nil || n < 1 || n > MaxColumns {
			return 0, fmt.Errorf("%w: column number %q out of range", ErrInvalidColumn, spec)
		}
		return n, nil
	}
	if isLetters(spec) && len(spec) <= 2 {
		return ColumnToIndex(spec)
	}
	return r.lookupHeader(ctx, side, src, spec)
}

func (r *Resolver) lookupHeader(ctx context.Context, side Side, src HeaderSource, spec string) (int, error) {
	if src == nil {
		return 0, &ColumnNotFoundError{Spec: spec, Side: side}
	}
	index, ok := r.headers[src]
	if !ok {
		row, err := src.HeaderRow(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s header row: %w", side, err)
		}
		r.reads++
		index = make(map[string]int, len(row))
		for i, h := range row {
			key := strings.ToLower(strings.TrimSpace(h))
			if key == "" {
				continue
			}
			if _, dup := index[key]; !dup {
				index[key] = i + 1
			}
		}
		r.headers[src] = index
	}

	if col, ok := index[strings.ToLower(spec)]; ok {
		return col, nil
	}
	return 0, &ColumnNotFoundError{Spec: spec, Side: side}
}

// splitRange splits "X-Y" or "X:Y" into its bounds.
func splitRange(spec string) (string, string, bool) {
	for _, sep := range []string{":", "-"} {
		parts := strings.Split(spec, sep)
		if len(parts) != 2 {
			continue
		}
		lo, hi := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if lo != "" && hi != "" {
			return lo, hi, true
		}
	}
	return "", "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
