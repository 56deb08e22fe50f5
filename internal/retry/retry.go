package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sqve/wtm/internal/logger"
)

type Config struct {
	MaxAttempts   int           // Maximum number of attempts, including the first.
	BaseDelay     time.Duration // Base delay for exponential backoff.
	MaxDelay      time.Duration // Maximum delay between attempts.
	JitterEnabled bool          // Spread retries of concurrent processes apart.
}

// DefaultConfig suits filesystem operations that fail while another process
// briefly holds a handle, such as a virus scanner or file indexer on Windows.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   5,
		BaseDelay:     50 * time.Millisecond,
		MaxDelay:      time.Second,
		JitterEnabled: true,
	}
}

// Do runs operation until it succeeds, retryable reports false for its
// error, attempts run out or ctx is done.
func Do(ctx context.Context, cfg Config, retryable func(error) bool, operation func() error) error {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled before attempt %d: %w", attempt, ctx.Err())
		default:
		}

		attempts = attempt
		err := operation()
		if err == nil {
			if attempt > 1 {
				logger.Debug("Operation succeeded on attempt %d", attempt)
			}
			return nil
		}
		lastErr = err

		if attempt >= cfg.MaxAttempts || retryable == nil || !retryable(err) {
			if attempt == 1 {
				return err
			}
			break
		}

		delay := calculateDelay(attempt, cfg)
		logger.Debug("Attempt %d/%d failed, retrying in %v: %v", attempt, cfg.MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func calculateDelay(attempt int, cfg Config) time.Duration {
	// baseDelay * 2^(attempt-1), capped at MaxDelay
	exponentialDelay := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt-1))
	if exponentialDelay > float64(cfg.MaxDelay) {
		exponentialDelay = float64(cfg.MaxDelay)
	}

	delay := time.Duration(exponentialDelay)

	// ±25% jitter
	if cfg.JitterEnabled {
		jitter := float64(delay) * 0.25 * (rand.Float64()*2 - 1) //nolint:gosec // jitter needs no crypto randomness
		delay = time.Duration(float64(delay) + jitter)
		if delay < 0 {
			delay = cfg.BaseDelay
		}
	}

	return delay
}
