package interfaces

import (
	"context"
	"time"

	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/pkg/marketdata"
)

type CacheClient interface {
	Set(context.Context, string, any, time.Duration) error
	Close() error
}

type PubsubClient interface {
	Publish(context.Context, string, any) error
	Close() error
}

type SnapshotProducer interface {
	Produce(context.Context, marketdata.Snapshot) (partition int32, offset int64, err error)
	Close() error
}

// TradeRecorder is the write side of a trade book.
type TradeRecorder interface {
	RecordTradeAt(stock *marketdata.Stock, quantity float64, side marketdata.Side, price float64, ts time.Time) marketdata.TradeRecord
}
