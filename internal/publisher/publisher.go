package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/metrics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/utils"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/interfaces"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	VWSPKeyPrefix   = "vwsp:"
	IndexKey        = "index:all-share"
	SnapshotChannel = "analytics:snapshot"

	publishTimeout = 2 * time.Second
)

func VWSPKey(symbol string) string {
	return VWSPKeyPrefix + symbol
}

// SnapshotPublisher fans computed snapshots out to the Redis cache, Redis
// pub/sub and the Kafka worker. A nil client disables that sink.
type SnapshotPublisher struct {
	cacheClient  interfaces.CacheClient
	pubsubClient interfaces.PubsubClient
	retry        utils.RetryConfig
	logger       *logger.Logger
}

func NewSnapshotPublisher(
	cacheClient interfaces.CacheClient,
	pubsubClient interfaces.PubsubClient,
	log *logger.Logger,
) *SnapshotPublisher {
	return &SnapshotPublisher{
		cacheClient:  cacheClient,
		pubsubClient: pubsubClient,
		retry:        utils.DefaultPublishRetryConfig(),
		logger:       log.Component("publisher"),
	}
}

// Start publishes snapshots until snapshotChan is closed or ctx is done, then
// closes kafkaChan. Publish failures are logged and do not stop the loop.
func (sp *SnapshotPublisher) Start(
	ctx context.Context,
	snapshotChan <-chan marketdata.Snapshot,
	kafkaChan chan<- marketdata.Snapshot,
) error {
	sp.logger.Info("snapshot publisher starting",
		logger.Bool("cache_enabled", sp.cacheClient != nil),
		logger.Bool("pubsub_enabled", sp.pubsubClient != nil),
		logger.Bool("kafka_enabled", kafkaChan != nil))

	var published, failed int
	defer func() {
		if kafkaChan != nil {
			sp.logger.Info("closing kafka snapshot channel")
			close(kafkaChan)
		}
		sp.logger.Info("publisher final statistics",
			logger.Int("published", published),
			logger.Int("errors", failed))
	}()

	for {
		select {
		case snapshot, ok := <-snapshotChan:
			if !ok {
				sp.logger.Info("snapshot channel closed, publisher stopping")
				return nil
			}
			if err := sp.Publish(ctx, snapshot, kafkaChan); err != nil {
				failed++
				sp.logger.Error("snapshot publishing failed",
					logger.Error(err),
					logger.String("snapshot_id", snapshot.ID))
				continue
			}
			published++

		case <-ctx.Done():
			sp.logger.Info("publisher received shutdown signal")
			return nil
		}
	}
}

// Publish writes one snapshot to every configured sink. The Kafka hand-off
// never blocks; a full channel drops the snapshot for Kafka only.
func (sp *SnapshotPublisher) Publish(ctx context.Context, snapshot marketdata.Snapshot, kafkaChan chan<- marketdata.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if sp.cacheClient != nil {
		g.Go(func() error {
			for _, stock := range snapshot.Stocks {
				if stock.VolumeWeightedPrice == nil {
					continue
				}
				if err := sp.set(ctx, VWSPKey(stock.Symbol), *stock.VolumeWeightedPrice); err != nil {
					return err
				}
			}
			if snapshot.AllShareIndex != nil {
				return sp.set(ctx, IndexKey, *snapshot.AllShareIndex)
			}
			return nil
		})
	}

	if sp.pubsubClient != nil {
		g.Go(func() error {
			payload, err := json.Marshal(snapshot)
			if err != nil {
				return utils.Permanent(fmt.Errorf("encode snapshot: %w", err))
			}
			return sp.publish(ctx, SnapshotChannel, string(payload))
		})
	}

	if kafkaChan != nil {
		select {
		case kafkaChan <- snapshot:
			sp.logger.Debug("snapshot forwarded to kafka channel",
				logger.String("snapshot_id", snapshot.ID))
		default:
			sp.logger.Warn("kafka channel full, dropping snapshot",
				logger.String("snapshot_id", snapshot.ID))
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("snapshot publishing encountered an error: %w", err)
	}

	metrics.SnapshotsProcessedTotal.Inc()
	return nil
}

func (sp *SnapshotPublisher) set(ctx context.Context, key string, value float64) error {
	op := func(ctx context.Context) error {
		metrics.RedisSetTotal.Inc()

		timer := metrics.NewTimer(metrics.RedisOperationDuration)
		err := sp.cacheClient.Set(ctx, key, value, 0)
		timer.ObserveDuration()

		if err != nil {
			metrics.RedisSetErrorsTotal.Inc()
			sp.logger.Warn("redis SET operation failed",
				logger.Error(err),
				logger.String("key", key),
				logger.Float64("value", value))
			return err
		}
		sp.logger.Debug("redis SET successful",
			logger.String("key", key),
			logger.Float64("value", value))
		return nil
	}
	return utils.RetryPublish(ctx, utils.SinkRedisSet, op, sp.retry, sp.logger)
}

func (sp *SnapshotPublisher) publish(ctx context.Context, channel, payload string) error {
	op := func(ctx context.Context) error {
		metrics.RedisPublishTotal.Inc()

		timer := metrics.NewTimer(metrics.RedisOperationDuration)
		err := sp.pubsubClient.Publish(ctx, channel, payload)
		timer.ObserveDuration()

		if err != nil {
			metrics.RedisPublishErrorsTotal.Inc()
			sp.logger.Warn("redis PUBLISH operation failed",
				logger.Error(err),
				logger.String("channel", channel))
			return err
		}
		sp.logger.Debug("redis PUBLISH successful",
			logger.String("channel", channel),
			logger.Int("bytes", len(payload)))
		return nil
	}
	return utils.RetryPublish(ctx, utils.SinkRedisPublish, op, sp.retry, sp.logger)
}

// Close closes every configured Redis client.
func (sp *SnapshotPublisher) Close() error {
	var err error
	if sp.cacheClient != nil {
		err = multierr.Append(err, sp.cacheClient.Close())
	}
	if sp.pubsubClient != nil {
		err = multierr.Append(err, sp.pubsubClient.Close())
	}
	return err
}
