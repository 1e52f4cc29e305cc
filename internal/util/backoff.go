package util

import (
	"context"
	"fmt"
	"time"

	"github.com/shopmonkeyus/go-common/logger"
)

const (
	maxConnectAttempts  = 10
	initialConnectDelay = 250 * time.Millisecond
	maxConnectDelay     = 30 * time.Second
)

// OpenWithBackoff calls open until it succeeds, retrying with exponential
// backoff. The retry budget is bounded; a persistently unreachable backend
// surfaces the last error to the caller instead of looping forever.
func OpenWithBackoff[T any](ctx context.Context, log logger.Logger, open func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := initialConnectDelay
	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		res, err := open(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == maxConnectAttempts {
			break
		}
		log.Warn("connect attempt %d/%d failed: %s, retrying in %v", attempt, maxConnectAttempts, err, delay)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxConnectDelay {
			delay = maxConnectDelay
		}
	}
	return zero, fmt.Errorf("unable to connect after %d attempts: %w", maxConnectAttempts, lastErr)
}
