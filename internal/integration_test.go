package internal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/analytics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/ingestor"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/mockdata"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/mocks"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/pipeline"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/publisher"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/registry"
)

func TestIntegrationPipeline(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC))
	log := logger.NewNoOpLogger()
	stocks := registry.GBCE().Stocks()

	// Setup mock clients
	mockCache := mocks.NewMockCacheClient()
	mockPubsub := mocks.NewMockPubsubClient()
	mockKafka := mocks.NewMockSnapshotProducer()

	genConfig := mockdata.DefaultConfig(stocks)
	genConfig.Trades = 250

	book := analytics.NewTradeBook(analytics.WithClock(clock), analytics.WithDiagnostics(log.Diagnostic))
	var out bytes.Buffer

	p := &pipeline.Pipeline{
		Book:      book,
		Stocks:    stocks,
		Generator: mockdata.NewGenerator(genConfig, clock, log),
		Ingestor:  ingestor.NewTradeIngestor(book, 4, log),
		Publisher: publisher.NewSnapshotPublisher(mockCache, mockPubsub, log),
		Producer:  mockKafka,
		ChanBuff:  8,
		Out:       &out,
		Logger:    log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshot, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.Len() != genConfig.Trades {
		t.Errorf("expected %d trades in the book, got %d", genConfig.Trades, book.Len())
	}
	if snapshot.AllShareIndex == nil {
		t.Fatalf("expected an index, got failure %q", snapshot.IndexFailure)
	}
	if *snapshot.AllShareIndex <= 0 {
		t.Errorf("expected positive index, got %v", *snapshot.AllShareIndex)
	}

	// Every generated trade is inside the window, so each traded stock is priced
	for _, s := range snapshot.Stocks {
		if s.Trades == 0 {
			continue
		}
		if s.VolumeWeightedPrice == nil {
			t.Errorf("%s: expected a volume weighted price, failures %v", s.Symbol, s.Failures)
			continue
		}
		if _, exists := mockCache.GetValue(publisher.VWSPKey(s.Symbol)); !exists {
			t.Errorf("%s: expected cached vwsp", s.Symbol)
		}
	}
	if v, exists := mockCache.GetValue(publisher.IndexKey); !exists || v != *snapshot.AllShareIndex {
		t.Errorf("expected cached index %v, got %v", *snapshot.AllShareIndex, v)
	}

	if got := len(mockPubsub.GetPublished(publisher.SnapshotChannel)); got != 1 {
		t.Errorf("expected 1 pubsub message, got %d", got)
	}

	produced := mockKafka.GetProducedMessages()
	if len(produced) != 1 || produced[0].ID != snapshot.ID {
		t.Errorf("expected snapshot %s in kafka, got %d messages", snapshot.ID, len(produced))
	}
	if !mockKafka.IsClosed() {
		t.Error("expected kafka producer to be closed")
	}

	if !strings.Contains(out.String(), "All Share Index:") {
		t.Errorf("expected rendered report, got\n%s", out.String())
	}
}

func TestIntegrationPipeline_NoSinks(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC))
	log := logger.NewNoOpLogger()
	stocks := registry.GBCE().Stocks()

	genConfig := mockdata.DefaultConfig(stocks)
	genConfig.Trades = 20

	book := analytics.NewTradeBook(analytics.WithClock(clock))
	p := &pipeline.Pipeline{
		Book:      book,
		Stocks:    stocks,
		Generator: mockdata.NewGenerator(genConfig, clock, log),
		Ingestor:  ingestor.NewTradeIngestor(book, 1, log),
		Logger:    log,
	}

	snapshot, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Stocks) != len(stocks) {
		t.Errorf("expected %d stock snapshots, got %d", len(stocks), len(snapshot.Stocks))
	}
}
