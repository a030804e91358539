package mapping

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"sheetPush/internal/sheetcopy"
)

// Pair assigns one left-hand item (a workbook sheet or source header) to a
// right-hand item (a destination worksheet or header).
type Pair struct {
	Left  string
	Right string
}

// Result is what the mapping TUI produced.
type Result struct {
	Pairs   []Pair
	Ignored []string
	Saved   bool
}

// SheetPairs converts pairs into an ordered sheet mapping.
func SheetPairs(pairs []Pair) []sheetcopy.SheetPair {
	out := make([]sheetcopy.SheetPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, sheetcopy.SheetPair{Source: p.Left, Target: p.Right})
	}
	return out
}

// FromSheetPairs is the inverse of SheetPairs.
func FromSheetPairs(pairs []sheetcopy.SheetPair) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Pair{Left: p.Source, Right: p.Target})
	}
	return out
}

// ColumnMapping converts pairs into parallel source/target header lists.
func ColumnMapping(pairs []Pair) sheetcopy.ColumnMapping {
	var m sheetcopy.ColumnMapping
	for _, p := range pairs {
		m.Source = append(m.Source, p.Left)
		m.Target = append(m.Target, p.Right)
	}
	return m
}

// FromColumnMapping pairs up a column mapping. Extra entries on the longer
// side are dropped.
func FromColumnMapping(m sheetcopy.ColumnMapping) []Pair {
	n := min(len(m.Source), len(m.Target))
	out := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Pair{Left: m.Source[i], Right: m.Target[i]})
	}
	return out
}

// ReadLines reads non-empty, trimmed lines from a text file.
func ReadLines(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filepath, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filepath, err)
	}
	return lines, nil
}
