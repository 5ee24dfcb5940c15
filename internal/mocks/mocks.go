package mocks

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

// MockTradeRecorder implements the TradeRecorder interface for testing
type MockTradeRecorder struct {
	mu     sync.Mutex
	trades []marketdata.TradeRecord
}

func NewMockTradeRecorder() *MockTradeRecorder {
	return &MockTradeRecorder{}
}

func (m *MockTradeRecorder) RecordTradeAt(stock *marketdata.Stock, quantity float64, side marketdata.Side, price float64, ts time.Time) marketdata.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	trade := marketdata.TradeRecord{
		ID:        uuid.New(),
		Stock:     stock,
		Timestamp: ts,
		Quantity:  quantity,
		Side:      side,
		Price:     price,
	}
	m.trades = append(m.trades, trade)
	return trade
}

func (m *MockTradeRecorder) GetTrades() []marketdata.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]marketdata.TradeRecord(nil), m.trades...)
}

// MockCacheClient implements the CacheClient interface for testing
type MockCacheClient struct {
	mu          sync.Mutex
	storage     map[string]any
	expirations map[string]time.Duration
	closed      bool
	err         error
}

func NewMockCacheClient() *MockCacheClient {
	return &MockCacheClient{
		storage:     make(map[string]any),
		expirations: make(map[string]time.Duration),
	}
}

func (m *MockCacheClient) SetError(err error) *MockCacheClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockCacheClient) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.storage[key] = value
	m.expirations[key] = expiration
	return nil
}

func (m *MockCacheClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockCacheClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockCacheClient) GetValue(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, exists := m.storage[key]
	return val, exists
}

func (m *MockCacheClient) GetExpiration(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expirations[key]
}

// Keys returns the stored keys in sorted order.
func (m *MockCacheClient) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.storage))
}

// MockPubsubClient implements the PubsubClient interface for testing
type MockPubsubClient struct {
	mu              sync.Mutex
	publishedTopics map[string][]any
	closed          bool
	err             error
}

func NewMockPubsubClient() *MockPubsubClient {
	return &MockPubsubClient{
		publishedTopics: make(map[string][]any),
	}
}

func (m *MockPubsubClient) SetError(err error) *MockPubsubClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockPubsubClient) Publish(ctx context.Context, topic string, message any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.publishedTopics[topic] = append(m.publishedTopics[topic], message)
	return nil
}

func (m *MockPubsubClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockPubsubClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockPubsubClient) GetPublished(topic string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publishedTopics[topic]
}

// MockSnapshotProducer implements the SnapshotProducer interface for testing
type MockSnapshotProducer struct {
	mu       sync.Mutex
	messages []marketdata.Snapshot
	closed   bool
	err      error
}

func NewMockSnapshotProducer() *MockSnapshotProducer {
	return &MockSnapshotProducer{
		messages: make([]marketdata.Snapshot, 0),
	}
}

func (m *MockSnapshotProducer) SetError(err error) *MockSnapshotProducer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockSnapshotProducer) Produce(ctx context.Context, snapshot marketdata.Snapshot) (partition int32, offset int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, 0, m.err
	}

	m.messages = append(m.messages, snapshot)
	return 0, int64(len(m.messages) - 1), nil
}

func (m *MockSnapshotProducer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockSnapshotProducer) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockSnapshotProducer) GetProducedMessages() []marketdata.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]marketdata.Snapshot(nil), m.messages...)
}
