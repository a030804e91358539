package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger discards output until Init is called.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init creates a per-run log file under dir, writes the header lines and
// routes all package logging to it. The caller owns the returned file.
func Init(dir, level string, header ...string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("run_%s.log", time.Now().Format("20060102_150405"))
	logFile, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	for _, line := range header {
		fmt.Fprintln(logFile, line)
	}
	if len(header) > 0 {
		fmt.Fprintln(logFile)
	}

	SetOutput(logFile, ParseLevel(level))
	return logFile, nil
}

// SetOutput replaces the package logger with a text handler writing to w.
func SetOutput(w io.Writer, level slog.Level) {
	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Log(level slog.Level, msg string, args ...any) {
	Logger.Log(context.Background(), level, msg, args...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
