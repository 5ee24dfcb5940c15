package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/metrics"
)

// Sinks a snapshot can be retried against. Used as the metrics label.
const (
	SinkRedisSet     = "redis_set"
	SinkRedisPublish = "redis_publish"
)

// Reasons a publish retry loop gives up.
const (
	abandonPermanent = "permanent"
	abandonCancelled = "cancelled"
	abandonExhausted = "exhausted"
)

// ErrPermanent marks a publish failure that another attempt cannot fix, such
// as a snapshot that does not encode.
var ErrPermanent = errors.New("permanent publish failure")

// Permanent wraps err so RetryPublish gives up after the current attempt.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// RetryConfig defines the configuration for the retry mechanism
type RetryConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	MaxElapsedTime      time.Duration
	RandomizationFactor float64
}

// DefaultPublishRetryConfig returns the retry configuration for snapshot
// publishing. Snapshots are infrequent, so it waits longer than a hot path would.
func DefaultPublishRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval:     10 * time.Millisecond,
		MaxInterval:         100 * time.Millisecond,
		Multiplier:          2.0,
		MaxElapsedTime:      500 * time.Millisecond,
		RandomizationFactor: 0.3,
	}
}

func (cfg RetryConfig) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	b.Multiplier = cfg.Multiplier
	b.MaxElapsedTime = cfg.MaxElapsedTime
	b.RandomizationFactor = cfg.RandomizationFactor
	return backoff.WithContext(b, ctx)
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// RetryPublish runs op against sink until it succeeds, returns an
// ErrPermanent error, ctx is done or the backoff budget is spent. Every retry
// is counted in metrics.PublishRetriesTotal and every give-up in
// metrics.PublishAbandonedTotal.
func RetryPublish(ctx context.Context, sink string, op RetryableOperation, cfg RetryConfig, log *logger.Logger) error {
	log = log.With(logger.String("sink", sink))

	var attempts int
	abandoned := abandonExhausted
	start := time.Now()

	attempt := func() error {
		attempts++
		if err := ctx.Err(); err != nil {
			abandoned = abandonCancelled
			return backoff.Permanent(err)
		}

		err := op(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrPermanent):
			abandoned = abandonPermanent
			return backoff.Permanent(err)
		case ctx.Err() != nil:
			abandoned = abandonCancelled
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.PublishRetriesTotal.WithLabelValues(sink).Inc()
		log.Warn("snapshot sink failed, retrying",
			logger.Error(err),
			logger.Int("attempt", attempts),
			logger.Duration("backoff_duration", wait))
	}

	err := backoff.RetryNotify(attempt, cfg.backOff(ctx), notify)
	if err == nil {
		if attempts > 1 {
			log.Info("snapshot sink recovered",
				logger.Int("attempts", attempts),
				logger.Duration("total_duration", time.Since(start)))
		}
		return nil
	}

	// RetryNotify returns early when ctx ends during a backoff wait.
	if abandoned == abandonExhausted && ctx.Err() != nil {
		abandoned = abandonCancelled
	}
	metrics.PublishAbandonedTotal.WithLabelValues(sink, abandoned).Inc()
	log.Error("giving up on snapshot sink",
		logger.Error(err),
		logger.String("reason", abandoned),
		logger.Int("attempts", attempts),
		logger.Duration("total_duration", time.Since(start)))
	return fmt.Errorf("%s after %d attempts: %w", sink, attempts, err)
}
