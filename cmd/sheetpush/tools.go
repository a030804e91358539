package main

import (
	"fmt"
	"path/filepath"

	"sheetPush/internal/excel"
	"sheetPush/internal/logger"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		sheet      string
		rows, cols int
	)
	cmd := &cobra.Command{
		Use:   "inspect <excel-file>",
		Short: "Show how formulas are detected in the first rows of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := excel.Open(args[0], excel.Options{})
			if err != nil {
				return err
			}
			defer wb.Close()

			src, err := wb.SheetOrFirst(sheet)
			if err != nil {
				return err
			}
			report, err := wb.Inspect(src.Name(), rows, cols)
			if err != nil {
				return err
			}

			fmt.Printf("Sheet: %s\n\n", report.Sheet)
			for _, c := range report.Cells {
				fmt.Println(c.String())
			}
			fmt.Printf("\nFormulas: %d (unreadable: %d, without cached value: %d)\n",
				report.Formulas, report.Unreadable, report.MissingCalc)
			if report.MissingCalc > 0 && !a.cfg.Copy.RecalculateMissing {
				fmt.Println("Tip: set copy.recalculate_missing = true to evaluate these locally")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to inspect (default: first)")
	cmd.Flags().IntVar(&rows, "rows", 5, "rows to inspect")
	cmd.Flags().IntVar(&cols, "cols", 10, "columns to inspect")
	return cmd
}

func newScanCmd(a *app) *cobra.Command {
	var sheet, output string
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Collect the unique header names of every workbook in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("Starting scan operation", "directory", args[0])
			fmt.Println("\nScanning Excel files for column names...")

			files, err := excel.FindWorkbooks(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Printf("No .xlsx files found in directory: %s\n", args[0])
				return nil
			}
			headers, err := excel.ScanHeaders(files, sheet)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(a.cfg.Log.Directory, "scanned_columns")
			}
			if err := excel.WriteLines(output, headers); err != nil {
				return err
			}
			fmt.Printf("✓ Found %d unique columns in %d files\n", len(headers), len(files))
			fmt.Printf("✓ Saved to: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to scan (default: all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <log dir>/scanned_columns)")
	return cmd
}
