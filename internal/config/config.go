package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where the CLI looks for its configuration.
const DefaultPath = "configs/config.toml"

// ErrInvalid marks configuration values that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Google GoogleConfig          `toml:"google"`
	Copy   CopyConfig            `toml:"copy"`
	Sheets []sheetcopy.SheetPair `toml:"sheets"`
	UI     UIConfig              `toml:"ui"`
	Log    LogConfig             `toml:"log"`
	AI     AIConfig              `toml:"ai"`
}

type GoogleConfig struct {
	Spreadsheet     string `toml:"spreadsheet"`
	CredentialsFile string `toml:"credentials_file"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	MaxRetries      int    `toml:"max_retries"`
	LinksFile       string `toml:"links_file"`
}

type CopyConfig struct {
	StartRow           int                     `toml:"start_row"`
	CopyFormatting     bool                    `toml:"copy_formatting"`
	SkipHiddenRows     bool                    `toml:"skip_hidden_rows"`
	HiddenSampleSize   int                     `toml:"hidden_sample_size"`
	FormatBatchSize    int                     `toml:"format_batch_size"`
	FormatPauseMS      int                     `toml:"format_pause_ms"`
	RecalculateMissing bool                    `toml:"recalculate_missing"`
	Columns            sheetcopy.ColumnMapping `toml:"columns"`
}

type UIConfig struct {
	ColumnsPerRow int `toml:"columns_per_row"`
	RowsPerPage   int `toml:"rows_per_page"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

type AIConfig struct {
	Model string `toml:"model"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Google: GoogleConfig{
			CredentialsFile: "configs/credentials.json",
			TimeoutSeconds:  60,
			MaxRetries:      3,
			LinksFile:       "configs/saved_links.json",
		},
		Copy: CopyConfig{
			StartRow:         1,
			CopyFormatting:   true,
			HiddenSampleSize: 10,
			FormatBatchSize:  sheetcopy.DefaultFormatBatchSize,
			FormatPauseMS:    int(sheetcopy.DefaultFormatPause / time.Millisecond),
			Columns: sheetcopy.ColumnMapping{
				Source: []string{"A"},
				Target: []string{"A"},
			},
		},
		UI: UIConfig{
			ColumnsPerRow: 6,
			RowsPerPage:   2,
		},
		Log: LogConfig{
			Directory: "logs",
			Level:     "info",
		},
		AI: AIConfig{
			Model: "gemini-2.0-flash",
		},
	}
}

// Load reads configPath, creating it with defaults when it does not exist.
// Keys missing from the file keep their default values.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		cfg := Default()
		if err := Save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		logger.Info("Created default config file", "path", configPath)
		return cfg, nil
	}

	cfg := Default()
	md, err := toml.DecodeFile(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warn("Unknown config keys ignored", "path", configPath, "keys", fmt.Sprint(undecoded))
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	logger.Info("Loaded configuration", "path", configPath)
	return cfg, nil
}

// Save writes cfg to configPath.
func Save(configPath string, cfg *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}

func (c *Config) normalize() {
	if c.UI.ColumnsPerRow <= 0 {
		c.UI.ColumnsPerRow = 6
	}
	if c.UI.RowsPerPage <= 0 {
		c.UI.RowsPerPage = 2
	}
	if c.Copy.FormatBatchSize <= 0 {
		c.Copy.FormatBatchSize = sheetcopy.DefaultFormatBatchSize
	}
	c.Copy.FormatBatchSize = min(c.Copy.FormatBatchSize, sheetcopy.MaxFormatBatchSize)
	if c.Copy.FormatPauseMS < 0 {
		c.Copy.FormatPauseMS = 0
	}
	if c.Copy.HiddenSampleSize < 0 {
		c.Copy.HiddenSampleSize = 0
	}
	if c.Log.Directory == "" {
		c.Log.Directory = "logs"
	}
}

// Validate checks values the copy engine relies on.
func (c *Config) Validate() error {
	if c.Copy.StartRow < 1 {
		return fmt.Errorf("%w: copy.start_row must be at least 1, got %d", ErrInvalid, c.Copy.StartRow)
	}
	if c.Google.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: google.timeout_seconds must not be negative", ErrInvalid)
	}
	if c.Google.MaxRetries < 0 {
		return fmt.Errorf("%w: google.max_retries must not be negative", ErrInvalid)
	}
	for i, pair := range c.Sheets {
		if pair.Source == "" || pair.Target == "" {
			return fmt.Errorf("%w: sheets[%d] needs both source and target", ErrInvalid, i)
		}
	}
	return nil
}

// CopyOptions converts the [copy] section into engine options.
func (c *Config) CopyOptions() sheetcopy.Options {
	opts := sheetcopy.DefaultOptions()
	opts.CopyFormatting = c.Copy.CopyFormatting
	opts.SkipHidden = c.Copy.SkipHiddenRows
	opts.HiddenSampleSize = c.Copy.HiddenSampleSize
	opts.FormatBatchSize = c.Copy.FormatBatchSize
	opts.FormatPause = time.Duration(c.Copy.FormatPauseMS) * time.Millisecond
	return opts
}

// Timeout is the per-request timeout for the destination API.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Google.TimeoutSeconds) * time.Second
}

// CredentialsPath returns the credentials file, preferring the
// SHEETPUSH_CREDENTIALS environment variable.
func (c *Config) CredentialsPath() string {
	if env := os.Getenv("SHEETPUSH_CREDENTIALS"); env != "" {
		return env
	}
	return c.Google.CredentialsFile
}
