package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sheetPush/internal/config"
	"sheetPush/internal/excel"
	"sheetPush/internal/logger"
	"sheetPush/internal/progress"
	"sheetPush/internal/sheetcopy"

	"github.com/spf13/cobra"
)

type copyFlags struct {
	startRow   int
	source     []string
	target     []string
	noFormat   bool
	skipHidden bool
}

func (f *copyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.startRow, "start-row", 0, "first row to copy (default from config)")
	cmd.Flags().StringSliceVar(&f.source, "source-columns", nil, "source column specifiers, e.g. A-C,Total")
	cmd.Flags().StringSliceVar(&f.target, "target-columns", nil, "destination column specifiers")
	cmd.Flags().BoolVar(&f.noFormat, "no-format", false, "skip copying cell formatting")
	cmd.Flags().BoolVar(&f.skipHidden, "skip-hidden", false, "skip hidden source rows")
}

// apply overlays flags set on the command line onto cfg.
func (f *copyFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if f.startRow > 0 {
		cfg.Copy.StartRow = f.startRow
	}
	if cmd.Flags().Changed("source-columns") {
		cfg.Copy.Columns.Source = f.source
	}
	if cmd.Flags().Changed("target-columns") {
		cfg.Copy.Columns.Target = f.target
	}
	if f.noFormat {
		cfg.Copy.CopyFormatting = false
	}
	if f.skipHidden {
		cfg.Copy.SkipHiddenRows = true
	}
}

func newCopyCmd(a *app) *cobra.Command {
	var flags copyFlags
	cmd := &cobra.Command{
		Use:   "copy <excel-file>",
		Short: "Copy the mapped sheets of one workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a.cfg)
			return a.runCopy(cmd.Context(), args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) runCopy(ctx context.Context, path string) error {
	cfg := a.cfg
	if len(cfg.Sheets) == 0 {
		return fmt.Errorf("no sheet mapping configured; run 'sheetpush map sheets %s' first", path)
	}
	logger.Info("Starting copy operation", "file", path, "pairs", len(cfg.Sheets))

	wb, err := excel.Open(path, excel.Options{Recalculate: cfg.Copy.RecalculateMissing})
	if err != nil {
		return err
	}
	defer wb.Close()

	svc, err := a.openDestination(ctx, "")
	if err != nil {
		return err
	}

	var summary *sheetcopy.Summary
	title := fmt.Sprintf("Copying %s → %s", filepath.Base(path), svc.Title())
	err = progress.Run(ctx, title, func(ctx context.Context, obs sheetcopy.Observer) error {
		copier := sheetcopy.NewCopier(svc, obs, cfg.CopyOptions())
		var err error
		summary, err = copier.CopyWorkbook(ctx, wb, cfg.Sheets, cfg.Copy.Columns, cfg.Copy.StartRow)
		return err
	})
	return finish(summary, err)
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		flags copyFlags
		file  string
		dir   string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Copy several workbooks, from a YAML job file or a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (dir == "") {
				return fmt.Errorf("exactly one of --file or --dir is required")
			}
			flags.apply(cmd, a.cfg)
			return a.runBatch(cmd.Context(), file, dir)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML batch job file")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory of .xlsx files (uses the first [[sheets]] entry)")
	return cmd
}

func (a *app) runBatch(ctx context.Context, file, dir string) error {
	cfg := a.cfg
	var (
		jobs     []sheetcopy.FileJob
		batchRef string
	)

	if file != "" {
		batch, err := config.LoadBatch(file)
		if err != nil {
			return err
		}
		jobs = batch.FileJobs(cfg)
		batchRef = batch.Spreadsheet
	} else {
		files, err := excel.FindWorkbooks(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("No .xlsx files found in directory: %s\n", dir)
			return nil
		}
		jobs, err = config.DirectoryJobs(files, cfg)
		if err != nil {
			return err
		}
	}
	logger.Info("Starting batch operation", "jobs", len(jobs))
	fmt.Printf("Found %d jobs\n", len(jobs))

	svc, err := a.openDestination(ctx, batchRef)
	if err != nil {
		return err
	}

	var summary *sheetcopy.Summary
	open := excel.Opener(excel.Options{Recalculate: cfg.Copy.RecalculateMissing})
	err = progress.Run(ctx, fmt.Sprintf("Batch copy → %s", svc.Title()), func(ctx context.Context, obs sheetcopy.Observer) error {
		copier := sheetcopy.NewCopier(svc, obs, cfg.CopyOptions())
		var err error
		summary, err = copier.CopyFiles(ctx, open, jobs)
		return err
	})
	return finish(summary, err)
}

func finish(summary *sheetcopy.Summary, err error) error {
	if summary != nil {
		progress.PrintSummary(os.Stdout, summary)
		logger.Info("Copy operation completed",
			"succeeded", summary.Succeeded,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
			"rows", summary.Rows)
	}
	if err != nil {
		return err
	}
	if summary != nil && summary.Failed > 0 {
		return fmt.Errorf("%d of %d copies failed; see the run log", summary.Failed, len(summary.Results))
	}
	return nil
}
