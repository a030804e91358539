package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"sheetPush/internal/config"
	"sheetPush/internal/gsheets"
	"sheetPush/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type app struct {
	configPath  string
	spreadsheet string
	link        string
	logLevel    string

	cfg     *config.Config
	logFile *os.File
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	// cobra skips post-run hooks when a command fails.
	a.close()
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sheetpush",
		Short:         "SheetPush - copy Excel data into Google Sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "configuration file")
	flags.StringVarP(&a.spreadsheet, "spreadsheet", "s", "", "destination spreadsheet URL or ID (overrides config)")
	flags.StringVar(&a.link, "link", "", "use a saved spreadsheet link by name")
	flags.StringVar(&a.logLevel, "log-level", "", "run log level: debug, info, warn, error")

	root.AddCommand(
		newCopyCmd(a),
		newBatchCmd(a),
		newSheetsCmd(a),
		newDownloadCmd(a),
		newLinksCmd(a),
		newMapCmd(a),
		newSuggestCmd(a),
		newInspectCmd(a),
		newScanCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Warning: failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	header := []string{
		"SheetPush run log",
		fmt.Sprintf("Started: %s", time.Now().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Command: %s %s", cmd.CommandPath(), strings.Join(args, " ")),
	}
	if ref, err := a.spreadsheetRef(""); err == nil {
		header = append(header, fmt.Sprintf("Spreadsheet: %s", ref))
	}
	logFile, err := logger.Init(cfg.Log.Directory, level, header...)
	if err != nil {
		fmt.Printf("Warning: run log disabled: %v\n", err)
		return nil
	}
	a.logFile = logFile
	return nil
}

// close releases the run log.
func (a *app) close() {
	if a.logFile == nil {
		return
	}
	logger.SetOutput(io.Discard, slog.LevelInfo)
	a.logFile.Close()
	a.logFile = nil
}

// spreadsheetRef picks the destination: --link, then --spreadsheet, then
// batchRef from a batch file, then the config file. An unknown link is an
// error even when a later source is set.
func (a *app) spreadsheetRef(batchRef string) (string, error) {
	if a.link != "" {
		url, ok := config.LoadLinks(a.cfg.Google.LinksFile).Get(a.link)
		if !ok {
			return "", fmt.Errorf("no saved link named %q", a.link)
		}
		return url, nil
	}
	if a.spreadsheet != "" {
		return a.spreadsheet, nil
	}
	if batchRef != "" {
		return batchRef, nil
	}
	if a.cfg.Google.Spreadsheet != "" {
		return a.cfg.Google.Spreadsheet, nil
	}
	return "", fmt.Errorf("no destination spreadsheet: set google.spreadsheet, --spreadsheet or --link")
}

func (a *app) openDestination(ctx context.Context, batchRef string) (*gsheets.Service, error) {
	ref, err := a.spreadsheetRef(batchRef)
	if err != nil {
		return nil, err
	}

	retry := gsheets.DefaultRetryConfig()
	if a.cfg.Google.MaxRetries > 0 {
		retry.MaxAttempts = a.cfg.Google.MaxRetries
	}

	fmt.Println("Connecting to Google Sheets...")
	svc, err := gsheets.Open(ctx, ref, a.cfg.CredentialsPath(), gsheets.Options{
		Timeout: a.cfg.Timeout(),
		Retry:   retry,
	})
	if err != nil {
		logger.Error("Failed to open spreadsheet", "ref", ref, "error", err)
		return nil, err
	}
	fmt.Printf("✓ Connected to %q\n", svc.Title())
	return svc, nil
}

func (a *app) saveConfig() error {
	return config.Save(a.configPath, a.cfg)
}
