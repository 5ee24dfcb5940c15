package marketdata

import "time"

// StockSnapshot holds the analytics computed for one stock. Nil pointers mark
// values that could not be computed; the matching reason is in Failures.
type StockSnapshot struct {
	Symbol              string     `json:"symbol"`
	Type                string     `json:"type"`
	ReferencePrice      *float64   `json:"reference_price,omitempty"`
	VolumeWeightedPrice *float64   `json:"vwsp,omitempty"`
	DividendYield       *float64   `json:"dividend_yield,omitempty"`
	PERatio             *float64   `json:"pe_ratio,omitempty"`
	Trades              int        `json:"trades"`
	Failures            []string   `json:"failures,omitempty"`
	LastTradeAt         *time.Time `json:"last_trade_at,omitempty"`
}

type Snapshot struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	AllShareIndex *float64        `json:"all_share_index,omitempty"`
	IndexFailure  string          `json:"index_failure,omitempty"`
	Stocks        []StockSnapshot `json:"stocks"`
}
