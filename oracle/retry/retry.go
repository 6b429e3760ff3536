// Package retry repeats a call with a bounded backoff until it succeeds or
// returns an error the caller does not want to retry.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/GPTx-global/aecli/oracle/log"
)

// Config bounds the attempts of Do.
type Config struct {
	MaxAttempts int           // total number of calls
	BaseDelay   time.Duration // delay after the first failure
	MaxDelay    time.Duration // upper bound of a single delay
	Multiplier  float64       // growth factor between delays
}

// PollConfig waits a fixed interval between attempts.
func PollConfig(interval time.Duration, attempts int) *Config {
	return &Config{
		MaxAttempts: attempts,
		BaseDelay:   interval,
		MaxDelay:    interval,
		Multiplier:  1,
	}
}

// RetryableFunc is the call being repeated.
type RetryableFunc func() error

// IsRetryable decides whether an error warrants another attempt.
type IsRetryable func(error) bool

// Do calls fn until it returns nil, a non-retryable error, the attempts run
// out or ctx is cancelled.
func Do(ctx context.Context, config *Config, fn RetryableFunc, isRetryable IsRetryable) error {
	logger := log.WithComponent("retry")

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			logger.Debug().Int("attempt", attempt).Msg("succeeded")
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			break
		}

		delay := calculateDelay(config, attempt)
		logger.Debug().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", config.MaxAttempts, lastErr)
}

func calculateDelay(config *Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1))

	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	return time.Duration(delay)
}
