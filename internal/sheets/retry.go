package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sheetxml/internal/config"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
)

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finalError marks a failure that must not be repeated whatever its cause.
type finalError struct {
	err error
}

func (e *finalError) Error() string { return e.err.Error() }
func (e *finalError) Unwrap() error { return e.err }

// isRetryable reports whether a failed call may succeed when repeated.
// Quota and server errors qualify, as does an attempt that timed out.
func isRetryable(err error) bool {
	var final *finalError
	if errors.As(err, &final) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// withRetry runs fn until it succeeds, fails permanently or runs out of
// attempts. Each attempt gets its own timeout.
func withRetry(ctx context.Context, operation string, cfg config.RetryConfig, fn func(ctx context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := cfg.Backoff(attempt - 1)
			log.Warn().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("Retrying Google API call")
			if sleepErr := sleep(ctx, wait); sleepErr != nil {
				return fmt.Errorf("%s interrupted: %w", operation, sleepErr)
			}
		}

		err = runAttempt(ctx, cfg.Timeout, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, err)
}

func runAttempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
