package main

import (
	"context"
	"fmt"
	"strings"

	"sheetPush/internal/excel"
	"sheetPush/internal/gsheets"
	"sheetPush/internal/logger"
	"sheetPush/internal/mapping"
	"sheetPush/internal/sheetcopy"

	"github.com/spf13/cobra"
)

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Interactively map sheets or columns and save them to the config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sheets <excel-file>",
		Short: "Pair workbook sheets with destination worksheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMapSheets(cmd.Context(), args[0])
		},
	})

	var sheet, target, scanned string
	columns := &cobra.Command{
		Use:   "columns <excel-file>",
		Short: "Pair source headers with destination headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMapColumns(cmd.Context(), args[0], sheet, target, scanned)
		},
	}
	columns.Flags().StringVar(&sheet, "sheet", "", "source sheet (default: first [[sheets]] entry or first sheet)")
	columns.Flags().StringVar(&target, "target", "", "destination worksheet (default: first [[sheets]] entry)")
	columns.Flags().StringVar(&scanned, "scanned", "", "map headers listed in this file (from 'sheetpush scan') instead of the sheet's own")
	cmd.AddCommand(columns)
	return cmd
}

func (a *app) uiConfig() mapping.UIConfig {
	return mapping.UIConfig{
		ColumnsPerRow: a.cfg.UI.ColumnsPerRow,
		RowsPerPage:   a.cfg.UI.RowsPerPage,
	}
}

func (a *app) runMapSheets(ctx context.Context, path string) error {
	wb, err := excel.Open(path, excel.Options{})
	if err != nil {
		return err
	}
	left := wb.SheetNames()
	wb.Close()

	svc, err := a.openDestination(ctx, "")
	if err != nil {
		return err
	}
	worksheets, err := svc.Worksheets(ctx)
	if err != nil {
		return err
	}
	right := make([]string, len(worksheets))
	for i, ws := range worksheets {
		right[i] = ws.Title
	}

	fmt.Printf("Grid: %dx%d (cols x rows)\n", a.cfg.UI.ColumnsPerRow, a.cfg.UI.RowsPerPage)
	res, err := mapping.RunTUI(left, right, mapping.FromSheetPairs(a.cfg.Sheets), a.uiConfig(),
		mapping.Labels{Title: "Sheet Mapping", Left: "sheets", Right: "worksheet"}, nil)
	if err != nil {
		logger.Error("Mapping operation failed", "error", err)
		return err
	}
	if !res.Saved {
		fmt.Println("Mapping not saved")
		return nil
	}

	a.cfg.Sheets = mapping.SheetPairs(res.Pairs)
	if err := a.saveConfig(); err != nil {
		return err
	}
	fmt.Printf("✓ Mapping saved to: %s\n", a.configPath)
	fmt.Printf("✓ Mapped %d sheets, ignored %d sheets\n", len(res.Pairs), len(res.Ignored))
	return nil
}

// headerPair loads both header rows for a source sheet and destination
// worksheet, defaulting to the first configured sheet pair.
func (a *app) headerPair(ctx context.Context, path, sheet, target string) (left, right []string, err error) {
	if len(a.cfg.Sheets) > 0 {
		if sheet == "" {
			sheet = a.cfg.Sheets[0].Source
		}
		if target == "" {
			target = a.cfg.Sheets[0].Target
		}
	}
	if target == "" {
		return nil, nil, fmt.Errorf("no destination worksheet: pass --target or configure [[sheets]]")
	}

	wb, err := excel.Open(path, excel.Options{})
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()
	src, err := wb.SheetOrFirst(sheet)
	if err != nil {
		return nil, nil, err
	}
	srcHeaders, err := src.HeaderRow()
	if err != nil {
		return nil, nil, err
	}

	svc, err := a.openDestination(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	ws, err := svc.Worksheet(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	dstHeaders, err := svc.HeaderRow(ctx, ws)
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("Source: %s / %s (%d headers)\n", path, src.Name(), len(srcHeaders))
	fmt.Printf("Target: %s (%d headers)\n", ws.Title, len(dstHeaders))
	return nonEmpty(srcHeaders), nonEmpty(dstHeaders), nil
}

func (a *app) runMapColumns(ctx context.Context, path, sheet, target, scanned string) error {
	left, right, err := a.headerPair(ctx, path, sheet, target)
	if err != nil {
		return err
	}
	if scanned != "" {
		if left, err = mapping.ReadLines(scanned); err != nil {
			return err
		}
		fmt.Printf("Using %d scanned columns from %s\n", len(left), scanned)
	}

	var suggest mapping.SuggestFunc
	if key := mapping.APIKey(); key != "" {
		ai, err := mapping.NewAIMapper(ctx, key, a.cfg.AI.Model)
		if err != nil {
			fmt.Printf("Warning: AI suggestions unavailable: %v\n", err)
		} else {
			defer ai.Close()
			suggest = ai.Suggest
		}
	}

	res, err := mapping.RunTUI(left, right, mapping.FromColumnMapping(a.cfg.Copy.Columns), a.uiConfig(),
		mapping.Labels{Title: "Column Mapping Tool", Left: "columns", Right: "target column"}, suggest)
	if err != nil {
		logger.Error("Mapping operation failed", "error", err)
		return err
	}
	if !res.Saved {
		fmt.Println("Mapping not saved")
		return nil
	}
	if len(res.Pairs) == 0 {
		return fmt.Errorf("mapping has no pairs; configuration left unchanged")
	}

	a.cfg.Copy.Columns = mapping.ColumnMapping(res.Pairs)
	if err := a.saveConfig(); err != nil {
		return err
	}
	fmt.Printf("✓ Column mapping saved to: %s\n", a.configPath)
	fmt.Printf("✓ Mapped %d columns, ignored %d columns\n", len(res.Pairs), len(res.Ignored))
	return nil
}

func newSuggestCmd(a *app) *cobra.Command {
	var (
		sheet, target string
		apply         bool
	)
	cmd := &cobra.Command{
		Use:   "suggest <excel-file>",
		Short: "Ask Gemini for a column mapping by header meaning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSuggest(cmd.Context(), args[0], sheet, target, apply)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "source sheet")
	cmd.Flags().StringVar(&target, "target", "", "destination worksheet")
	cmd.Flags().BoolVar(&apply, "apply", false, "save the suggestions as [copy.columns]")
	return cmd
}

func (a *app) runSuggest(ctx context.Context, path, sheet, target string, apply bool) error {
	key := mapping.APIKey()
	if key == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set (add it to .env)")
	}
	left, right, err := a.headerPair(ctx, path, sheet, target)
	if err != nil {
		return err
	}

	ai, err := mapping.NewAIMapper(ctx, key, a.cfg.AI.Model)
	if err != nil {
		return err
	}
	defer ai.Close()

	fmt.Printf("Asking %s about %d columns...\n", a.cfg.AI.Model, len(left))
	suggestions, suggestErr := ai.Suggest(ctx, left, right)
	if dump, err := mapping.SaveSuggestionDump("", left, right, suggestions, suggestErr); err == nil {
		fmt.Printf("Debug dump: %s\n", dump)
	}
	if suggestErr != nil {
		return suggestErr
	}
	if len(suggestions) == 0 {
		fmt.Println("No confident suggestions")
		return nil
	}

	pairs := make([]mapping.Pair, 0, len(suggestions))
	for _, s := range suggestions {
		fmt.Printf("✓ %s → %s (%.2f)\n", s.Source, s.Target, s.Confidence)
		pairs = append(pairs, mapping.Pair{Left: s.Source, Right: s.Target})
	}
	if !apply {
		return nil
	}

	a.cfg.Copy.Columns = mapping.ColumnMapping(pairs)
	if err := a.saveConfig(); err != nil {
		return err
	}
	fmt.Printf("✓ Saved %d column pairs to: %s\n", len(pairs), a.configPath)
	return nil
}

func nonEmpty(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

var (
	_ sheetcopy.Destination = (*gsheets.Service)(nil)
	_ sheetcopy.Workbook    = (*excel.Workbook)(nil)
)
