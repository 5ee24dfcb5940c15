package producer

import (
	"context"
	"errors"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/metrics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/interfaces"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

type KafkaWorker struct {
	producer interfaces.SnapshotProducer
	logger   *logger.Logger
}

func NewKafkaWorker(producer interfaces.SnapshotProducer, log *logger.Logger) *KafkaWorker {
	return &KafkaWorker{
		producer: producer,
		logger:   log.Component("kafka-worker"),
	}
}

// Start produces snapshots until snapshotChan is closed or ctx is done. The
// producer is closed on the way out.
func (kw *KafkaWorker) Start(ctx context.Context, snapshotChan <-chan marketdata.Snapshot) error {
	kw.logger.Info("starting synchronous kafka worker (using producer's internal retries)")

	for {
		select {
		case snapshot, ok := <-snapshotChan:
			if !ok {
				kw.logger.Info("snapshot channel closed, stopping kafka worker")
				kw.close()
				kw.logger.Info("kafka worker finished gracefully")
				return nil
			}
			kw.produce(ctx, snapshot)

		case <-ctx.Done():
			kw.logger.Info("context cancelled, stopping kafka worker")
			kw.close()
			kw.logger.Info("kafka worker finished due to context cancellation")
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			return ctx.Err()
		}
	}
}

func (kw *KafkaWorker) produce(ctx context.Context, snapshot marketdata.Snapshot) {
	metrics.KafkaPublishTotal.Inc()

	timer := metrics.NewTimer(metrics.KafkaOperationDuration)
	partition, offset, err := kw.producer.Produce(ctx, snapshot)
	timer.ObserveDuration()

	if err != nil {
		metrics.KafkaPublishErrorsTotal.Inc()
		kw.logger.Error("failed to produce message after producer's internal retries",
			logger.Error(err),
			logger.String("snapshot_id", snapshot.ID),
			logger.Int("stocks", len(snapshot.Stocks)))
		return
	}

	kw.logger.Debug("produced message to kafka",
		logger.String("snapshot_id", snapshot.ID),
		logger.Int("partition", int(partition)),
		logger.Int64("offset", offset))
}

func (kw *KafkaWorker) close() {
	if err := kw.producer.Close(); err != nil {
		kw.logger.Error("error closing kafka producer", logger.Error(err))
	}
}
