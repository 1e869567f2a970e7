package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/platinummonkey/rebill/pkg/transport"
)

// Config bounds the retry schedule.
type Config struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig returns the default retry schedule: up to 5 attempts with
// exponential backoff starting at 500ms and capped at 30s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// Do runs op, retrying with exponential backoff as long as it returns a
// *transport.TransportError. Any other error, including a provider fault or
// a decode failure, stops the retries immediately and is returned as-is.
// Cancelling ctx stops the schedule between attempts.
func Do(ctx context.Context, cfg Config, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}

	var schedule backoff.BackOff = backoff.WithContext(b, ctx)
	if cfg.MaxAttempts > 0 {
		schedule = backoff.WithMaxRetries(schedule, cfg.MaxAttempts-1)
	}

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		var te *transport.TransportError
		if errors.As(err, &te) {
			return err
		}
		return backoff.Permanent(err)
	}, schedule)
}
