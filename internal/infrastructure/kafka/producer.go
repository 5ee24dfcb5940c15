package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/config"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

// SaramaSyncProducer writes snapshots as JSON, keyed by snapshot ID.
type SaramaSyncProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSyncProducer(cfg *config.Config) (*SaramaSyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Errors = true
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewSaramaSyncProducer(producer, cfg.KafkaTopicAnalytics), nil
}

func NewSaramaSyncProducer(producer sarama.SyncProducer, topic string) *SaramaSyncProducer {
	return &SaramaSyncProducer{
		producer: producer,
		topic:    topic,
	}
}

// Produce blocks until the broker acknowledges the message. ctx is only
// checked before sending; sarama has no per-message cancellation.
func (p *SaramaSyncProducer) Produce(ctx context.Context, snapshot marketdata.Snapshot) (int32, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return 0, 0, fmt.Errorf("encode snapshot: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(snapshot.ID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: snapshot.Timestamp,
	}
	return p.producer.SendMessage(message)
}

func (p *SaramaSyncProducer) Close() error {
	return p.producer.Close()
}
