package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"google.golang.org/api/googleapi"
)

// RetryConfig holds configuration for retried API calls.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns the defaults used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     8 * time.Second,
	}
}

// withRetry runs fn with exponential backoff while its error is transient.
func withRetry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	wait := cfg.InitialWait
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = classify(err)
		if !isTransient(err) || attempt == attempts {
			break
		}

		logger.Warn("Retrying Google Sheets call", "op", op, "attempt", attempt, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, cfg.MaxWait)
	}
	return lastErr
}

// classify maps API errors onto the copy engine's sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isRateLimit(err) {
		return fmt.Errorf("%w: %w", sheetcopy.ErrRateLimited, err)
	}
	return err
}

func isRateLimit(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	if apiErr.Code == http.StatusForbidden {
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

func isTransient(err error) bool {
	if isRateLimit(err) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
