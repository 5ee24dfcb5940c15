// Package pipeline wires the simulation together: generated trades are
// recorded into a trade book, summarised into a snapshot and fanned out to
// the configured sinks.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/analytics"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/ingestor"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/mockdata"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/producer"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/publisher"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/report"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/interfaces"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
	"golang.org/x/sync/errgroup"
)

const defaultChanBuff = 16

type Pipeline struct {
	Book      *analytics.TradeBook
	Stocks    []*marketdata.Stock
	Generator *mockdata.Generator
	Ingestor  *ingestor.TradeIngestor

	// Publisher and Producer are optional. Without a Publisher nothing leaves
	// the process.
	Publisher *publisher.SnapshotPublisher
	Producer  interfaces.SnapshotProducer

	ChanBuff int
	Out      io.Writer
	Logger   *logger.Logger
}

// Run records the generated trades, builds the snapshot, renders it to Out
// and publishes it.
func (p *Pipeline) Run(ctx context.Context) (marketdata.Snapshot, error) {
	buff := p.ChanBuff
	if buff < 1 {
		buff = defaultChanBuff
	}

	tradeChan := make(chan marketdata.TradeRecord, buff)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Generator.Start(gctx, tradeChan)
	})
	g.Go(func() error {
		return p.Ingestor.Start(gctx, tradeChan)
	})
	if err := g.Wait(); err != nil {
		return marketdata.Snapshot{}, fmt.Errorf("record trades: %w", err)
	}

	p.Logger.Info("trades recorded", logger.Int("book_size", p.Book.Len()))

	snapshot := report.Build(p.Book, p.Stocks)
	if p.Out != nil {
		if err := report.Render(p.Out, snapshot); err != nil {
			return snapshot, fmt.Errorf("render snapshot: %w", err)
		}
	}

	if p.Publisher == nil {
		return snapshot, nil
	}
	return snapshot, p.publish(ctx, snapshot, buff)
}

func (p *Pipeline) publish(ctx context.Context, snapshot marketdata.Snapshot, buff int) error {
	snapshotChan := make(chan marketdata.Snapshot, 1)
	snapshotChan <- snapshot
	close(snapshotChan)

	g, gctx := errgroup.WithContext(ctx)

	var kafkaChan chan marketdata.Snapshot
	if p.Producer != nil {
		kafkaChan = make(chan marketdata.Snapshot, buff)
		worker := producer.NewKafkaWorker(p.Producer, p.Logger)
		g.Go(func() error {
			return worker.Start(gctx, kafkaChan)
		})
	}

	g.Go(func() error {
		return p.Publisher.Start(gctx, snapshotChan, kafkaChan)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
