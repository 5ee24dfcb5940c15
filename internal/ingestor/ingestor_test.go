package ingestor

import (
	"context"
	"testing"
	"time"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/mocks"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

var (
	testNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	pop     = marketdata.NewStock("POP", marketdata.Common, marketdata.Num(8), marketdata.Figure{}, marketdata.Num(100))
	gin     = marketdata.NewStock("GIN", marketdata.Preferred, marketdata.Num(8), marketdata.Num(2), marketdata.Num(100))
)

func TestTradeIngestor_Start(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		trades  []marketdata.TradeRecord
	}{
		{
			name:    "single_worker",
			workers: 1,
			trades: []marketdata.TradeRecord{
				{Stock: pop, Quantity: 5, Side: marketdata.Buy, Price: 10, Timestamp: testNow.Add(-time.Minute)},
				{Stock: gin, Quantity: 3, Side: marketdata.Sell, Price: 9, Timestamp: testNow.Add(-2 * time.Minute)},
			},
		},
		{
			name:    "many_workers",
			workers: 4,
			trades: []marketdata.TradeRecord{
				{Stock: pop, Quantity: 1, Price: 10, Timestamp: testNow},
				{Stock: pop, Quantity: 2, Price: 11, Timestamp: testNow},
				{Stock: gin, Quantity: 3, Price: 12, Timestamp: testNow},
				{Stock: gin, Quantity: 4, Price: 13, Timestamp: testNow},
				{Stock: pop, Quantity: 5, Price: 14, Timestamp: testNow},
			},
		},
		{
			name:    "no_trades",
			workers: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := mocks.NewMockTradeRecorder()
			ingestor := NewTradeIngestor(recorder, tc.workers, logger.NewNoOpLogger())

			tradeChan := make(chan marketdata.TradeRecord, len(tc.trades))
			for _, trade := range tc.trades {
				tradeChan <- trade
			}
			close(tradeChan)

			errChan := make(chan error, 1)
			go func() {
				errChan <- ingestor.Start(context.Background(), tradeChan)
			}()

			select {
			case err := <-errChan:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("ingestor did not finish after the channel was closed")
			}

			recorded := recorder.GetTrades()
			if len(recorded) != len(tc.trades) {
				t.Fatalf("expected %d trades, got %d", len(tc.trades), len(recorded))
			}
			if ingestor.Received() != int64(len(tc.trades)) {
				t.Errorf("expected %d received, got %d", len(tc.trades), ingestor.Received())
			}

			var wantQuantity, gotQuantity float64
			for _, trade := range tc.trades {
				wantQuantity += trade.Quantity
			}
			for _, trade := range recorded {
				gotQuantity += trade.Quantity
				if trade.Stock == nil {
					t.Error("expected stock to be carried over")
				}
			}
			if gotQuantity != wantQuantity {
				t.Errorf("expected total quantity %v, got %v", wantQuantity, gotQuantity)
			}
		})
	}
}

func TestTradeIngestor_KeepsTimestamps(t *testing.T) {
	recorder := mocks.NewMockTradeRecorder()
	ingestor := NewTradeIngestor(recorder, 1, logger.NewNoOpLogger())

	ts := testNow.Add(-3 * time.Minute)
	tradeChan := make(chan marketdata.TradeRecord, 1)
	tradeChan <- marketdata.TradeRecord{Stock: pop, Quantity: 1, Price: 10, Timestamp: ts}
	close(tradeChan)

	if err := ingestor.Start(context.Background(), tradeChan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := recorder.GetTrades()[0].Timestamp; !got.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, got)
	}
}

func TestTradeIngestor_GracefulShutdown(t *testing.T) {
	recorder := mocks.NewMockTradeRecorder()
	ingestor := NewTradeIngestor(recorder, 2, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())

	// Never closed: only cancellation stops the ingestor
	tradeChan := make(chan marketdata.TradeRecord)

	errChan := make(chan error, 1)
	go func() {
		errChan <- ingestor.Start(ctx, tradeChan)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected nil error on graceful shutdown, got: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("ingestor did not shut down within timeout period")
	}
}
