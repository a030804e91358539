package excel

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sheetPush/internal/logger"
)

// FindWorkbooks returns all .xlsx files under dir, sorted. Lock files left
// behind by Excel ("~$name.xlsx") are ignored.
func FindWorkbooks(dir string) ([]string, error) {
	var xlsxFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if strings.ToLower(filepath.Ext(name)) == ".xlsx" && !strings.HasPrefix(name, "~$") {
			xlsxFiles = append(xlsxFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	sort.Strings(xlsxFiles)
	return xlsxFiles, nil
}

// ScanHeaders collects the unique, trimmed header names of the given sheet
// across files. An empty sheet name scans every sheet. Files that fail to
// open are logged and skipped.
func ScanHeaders(paths []string, sheet string) ([]string, error) {
	unique := make(map[string]bool)

	for _, path := range paths {
		if err := scanFileHeaders(path, sheet, unique); err != nil {
			logger.Warn("Failed to scan file", "file", filepath.Base(path), "error", err)
			continue
		}
	}

	headers := make([]string, 0, len(unique))
	for h := range unique {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers, nil
}

func scanFileHeaders(path, sheet string, unique map[string]bool) error {
	wb, err := Open(path, Options{})
	if err != nil {
		return err
	}
	defer wb.Close()

	names := wb.SheetNames()
	if sheet != "" {
		s, err := wb.SheetOrFirst(sheet)
		if err != nil {
			return err
		}
		names = []string{s.Name()}
	}

	for _, name := range names {
		s, err := wb.sheet(name)
		if err != nil {
			return err
		}
		headers, err := s.HeaderRow()
		if err != nil {
			logger.Warn("Failed to read headers", "file", filepath.Base(path), "sheet", name, "error", err)
			continue
		}
		for _, h := range headers {
			if h = strings.TrimSpace(h); h != "" {
				unique[h] = true
			}
		}
		logger.Debug("Scanned sheet headers", "file", filepath.Base(path), "sheet", name, "count", len(headers))
	}
	return nil
}

// WriteLines writes one entry per line to filename.
func WriteLines(filename string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return writer.Flush()
}
