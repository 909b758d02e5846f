package models

import "time"

// PricePoint is one row of the daily adjusted-close feed for a ticker.
// Rows arrive ordered by trade date; missing trading days are absent,
// never present as null rows.
type PricePoint struct {
	Ticker    string
	TradeDate time.Time
	AdjClose  float64
}

// SentimentPoint is a single scalar sentiment observation per
// (ticker, date, source).
type SentimentPoint struct {
	Ticker    string
	TradeDate time.Time
	Source    string
	Score     float64
}

// ForwardReturn is a research-lineage observation: the return realized over
// the `Horizon` trading days after TradeDate. It is computed upstream from
// future prices and must never feed back into signal classification.
type ForwardReturn struct {
	Ticker    string
	TradeDate time.Time
	Horizon   Horizon
	Value     float64
}
