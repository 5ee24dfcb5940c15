package ingestor

import (
	"context"
	"sync/atomic"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/interfaces"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"golang.org/x/sync/errgroup"
)

const milestone = 1000

type TradeIngestor struct {
	recorder interfaces.TradeRecorder
	workers  int
	logger   *logger.Logger
	received atomic.Int64
}

func NewTradeIngestor(
	recorder interfaces.TradeRecorder,
	workers int,
	logger *logger.Logger,
) *TradeIngestor {
	if workers < 1 {
		workers = 1
	}
	return &TradeIngestor{
		recorder: recorder,
		workers:  workers,
		logger:   logger.Component("ingestor"),
	}
}

// Start records every trade from tradeChan until it is closed or ctx is done.
// Trades are recorded with their own timestamps.
func (ti *TradeIngestor) Start(ctx context.Context, tradeChan <-chan marketdata.TradeRecord) error {
	ti.logger.Info("trade ingestor starting", logger.Int("workers", ti.workers))

	g, ctx := errgroup.WithContext(ctx)
	for range ti.workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case trade, ok := <-tradeChan:
					if !ok {
						return nil
					}
					ti.record(trade)
				}
			}
		})
	}

	err := g.Wait()
	ti.logger.Info("trade ingestor stopped", logger.Int64("total_received", ti.received.Load()))
	return err
}

func (ti *TradeIngestor) Received() int64 {
	return ti.received.Load()
}

func (ti *TradeIngestor) record(trade marketdata.TradeRecord) {
	recorded := ti.recorder.RecordTradeAt(trade.Stock, trade.Quantity, trade.Side, trade.Price, trade.Timestamp)
	count := ti.received.Add(1)

	// Only log every 1000 trades to avoid excessive logging
	if count%milestone == 0 {
		ti.logger.Info("trade processing milestone",
			logger.Int64("trades_received", count),
			logger.String("symbol", recorded.Symbol()))
	} else {
		ti.logger.Debug("trade received",
			logger.String("id", recorded.ID.String()),
			logger.String("symbol", recorded.Symbol()),
			logger.Float64("price", recorded.Price),
			logger.Int64("count", count))
	}
}
