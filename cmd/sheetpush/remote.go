package main

import (
	"context"
	"fmt"

	"sheetPush/internal/config"
	"sheetPush/internal/excel"
	"sheetPush/internal/gsheets"
	"sheetPush/internal/logger"

	"github.com/spf13/cobra"
)

func newSheetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [excel-file]",
		Short: "List workbook sheets and destination worksheets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				wb, err := excel.Open(args[0], excel.Options{})
				if err != nil {
					return err
				}
				fmt.Printf("Sheets in %s:\n", args[0])
				for i, name := range wb.SheetNames() {
					fmt.Printf("  %d. %s\n", i+1, name)
				}
				wb.Close()
				if _, err := a.spreadsheetRef(""); err != nil {
					if a.link != "" {
						return err
					}
					return nil
				}
				fmt.Println()
			}

			svc, err := a.openDestination(cmd.Context(), "")
			if err != nil {
				return err
			}
			worksheets, err := svc.Worksheets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Worksheets in %q:\n", svc.Title())
			for i, ws := range worksheets {
				fmt.Printf("  %d. %s\n", i+1, ws.Title)
			}
			return nil
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	var titles []string
	cmd := &cobra.Command{
		Use:   "download <output.xlsx>",
		Short: "Export destination worksheets to a local workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd.Context(), args[0], titles)
		},
	}
	cmd.Flags().StringSliceVar(&titles, "sheet", nil, "worksheet to export (repeatable; default all)")
	return cmd
}

func (a *app) runDownload(ctx context.Context, output string, titles []string) error {
	svc, err := a.openDestination(ctx, "")
	if err != nil {
		return err
	}

	if len(titles) == 0 {
		worksheets, err := svc.Worksheets(ctx)
		if err != nil {
			return err
		}
		for _, ws := range worksheets {
			titles = append(titles, ws.Title)
		}
	}
	logger.Info("Starting download", "spreadsheet", svc.ID(), "worksheets", len(titles), "output", output)

	exp := excel.NewExporter()
	defer exp.Close()

	for i, title := range titles {
		fmt.Printf("[%d/%d] Downloading: %s\n", i+1, len(titles), title)
		rows, err := svc.ReadAll(ctx, title)
		if err != nil {
			logger.Error("Failed to read worksheet", "worksheet", title, "error", err)
			fmt.Printf("❌ Error reading %q: %v\n", title, err)
			continue
		}
		if err := exp.AddSheet(title, rows); err != nil {
			return err
		}
		fmt.Printf("✓ %d rows\n", len(rows))
	}

	if err := exp.SaveAs(output); err != nil {
		return err
	}
	fmt.Printf("✓ Saved to: %s\n", output)
	return nil
}

func newLinksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Manage saved spreadsheet links",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <url>",
			Short: "Save a spreadsheet link under a name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := gsheets.ExtractSpreadsheetID(args[1]); err != nil {
					return err
				}
				links := config.LoadLinks(a.cfg.Google.LinksFile)
				if err := links.Add(args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("✓ Saved link %q\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved links",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				links := config.LoadLinks(a.cfg.Google.LinksFile)
				names := links.Names()
				if len(names) == 0 {
					fmt.Println("No saved links")
					return nil
				}
				for _, name := range names {
					url, _ := links.Get(name)
					fmt.Printf("  %s: %s\n", name, url)
				}
				return nil
			},
		},
	)
	return cmd
}
