package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"gopkg.in/yaml.v3"
)

// DefaultExcelSheet is used for batch jobs that do not name a sheet.
const DefaultExcelSheet = "Sheet1"

// BatchFile is a YAML list of copy jobs sharing one destination.
type BatchFile struct {
	Spreadsheet string     `yaml:"spreadsheet"`
	Jobs        []BatchJob `yaml:"jobs"`
}

type BatchJob struct {
	ExcelPath     string                   `yaml:"excel_path"`
	ExcelSheet    string                   `yaml:"excel_sheet,omitempty"`
	GoogleSheet   string                   `yaml:"google_sheet"`
	ColumnMapping *sheetcopy.ColumnMapping `yaml:"column_mapping,omitempty"`
	StartRow      int                      `yaml:"start_row,omitempty"`
}

// LoadBatch reads and validates a batch file. Relative excel paths are
// resolved against the batch file's directory.
func LoadBatch(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if len(batch.Jobs) == 0 {
		return nil, fmt.Errorf("%w: batch file %s has no jobs", ErrInvalid, path)
	}

	base := filepath.Dir(path)
	for i := range batch.Jobs {
		job := &batch.Jobs[i]
		if job.ExcelPath == "" {
			return nil, fmt.Errorf("%w: jobs[%d] is missing excel_path", ErrInvalid, i)
		}
		if job.GoogleSheet == "" {
			return nil, fmt.Errorf("%w: jobs[%d] is missing google_sheet", ErrInvalid, i)
		}
		if job.StartRow < 0 {
			return nil, fmt.Errorf("%w: jobs[%d] start_row must be at least 1", ErrInvalid, i)
		}
		if !filepath.IsAbs(job.ExcelPath) {
			job.ExcelPath = filepath.Join(base, job.ExcelPath)
		}
	}

	logger.Info("Loaded batch file", "path", path, "jobs", len(batch.Jobs))
	return &batch, nil
}

// SaveBatch writes batch as YAML.
func SaveBatch(path string, batch *BatchFile) error {
	data, err := yaml.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FileJobs turns the batch entries into engine jobs, filling unset fields
// from cfg.
func (b *BatchFile) FileJobs(cfg *Config) []sheetcopy.FileJob {
	jobs := make([]sheetcopy.FileJob, 0, len(b.Jobs))
	for _, j := range b.Jobs {
		job := sheetcopy.FileJob{
			Path:        j.ExcelPath,
			SourceSheet: j.ExcelSheet,
			TargetSheet: j.GoogleSheet,
			Columns:     cfg.Copy.Columns,
			StartRow:    j.StartRow,
		}
		if job.SourceSheet == "" {
			job.SourceSheet = DefaultExcelSheet
		}
		if j.ColumnMapping != nil {
			job.Columns = *j.ColumnMapping
		}
		if job.StartRow == 0 {
			job.StartRow = cfg.Copy.StartRow
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// DirectoryJobs builds one job per file using the configured column
// mapping and the first [[sheets]] entry.
func DirectoryJobs(files []string, cfg *Config) ([]sheetcopy.FileJob, error) {
	if len(cfg.Sheets) == 0 {
		return nil, fmt.Errorf("%w: directory batch needs a [[sheets]] entry", ErrInvalid)
	}
	pair := cfg.Sheets[0]

	jobs := make([]sheetcopy.FileJob, 0, len(files))
	for _, path := range files {
		jobs = append(jobs, sheetcopy.FileJob{
			Path:        path,
			SourceSheet: pair.Source,
			TargetSheet: pair.Target,
			Columns:     cfg.Copy.Columns,
			StartRow:    cfg.Copy.StartRow,
		})
	}
	return jobs, nil
}
