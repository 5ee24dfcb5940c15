package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analytics metrics
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_calculations_total",
		Help: "Total number of analytics calculations, by operation",
	}, []string{"operation"})

	CalculationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_calculation_failures_total",
		Help: "Total number of analytics calculations that returned no valid answer",
	}, []string{"operation", "kind"})

	CalculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "app_calculation_duration_seconds",
		Help:    "Duration of analytics calculations",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"operation"})

	// Trade book metrics
	TradesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_trades_recorded_total",
		Help: "Total number of trades appended to trade books",
	})

	TradeBookSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_trade_book_size",
		Help: "Number of trades held by the most recently written trade book",
	})

	// Mock generator metrics
	MockTradesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_mock_trades_generated_total",
		Help: "The total number of mock trades generated",
	})

	// Publisher metrics
	SnapshotsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_snapshots_processed_total",
		Help: "Total number of analytics snapshots published",
	})

	RedisSetTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_redis_set_total",
		Help: "Total number of Redis SET operations",
	})

	RedisSetErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_redis_set_errors_total",
		Help: "Total number of Redis SET errors",
	})

	RedisPublishTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_redis_publish_total",
		Help: "Total number of Redis PUBLISH operations",
	})

	RedisPublishErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_redis_publish_errors_total",
		Help: "Total number of Redis PUBLISH errors",
	})

	PublishRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_publish_retries_total",
		Help: "Total number of retried snapshot sink operations, by sink",
	}, []string{"sink"})

	PublishAbandonedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_publish_abandoned_total",
		Help: "Total number of snapshot sink operations given up on, by sink and reason",
	}, []string{"sink", "reason"})

	RedisOperationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "app_redis_operation_duration_seconds",
		Help:    "Duration of Redis operations",
		Buckets: prometheus.DefBuckets,
	})

	// Kafka metrics
	KafkaPublishTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_kafka_publish_total",
		Help: "Total number of Kafka publish operations",
	})

	KafkaPublishErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_kafka_publish_errors_total",
		Help: "Total number of Kafka publish errors",
	})

	KafkaOperationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "app_kafka_operation_duration_seconds",
		Help:    "Duration of Kafka operations",
		Buckets: prometheus.DefBuckets,
	})
)
