package models

import "time"

// BucketNone marks a decile bucket that could not be assigned
// (warm-up period or degenerate rolling variance).
const BucketNone = 0

// FeatureRow carries the rolling features derived from a ticker's price
// history up to and including TradeDate. Pointer fields are nil while the
// corresponding rolling window has not filled yet.
type FeatureRow struct {
	Ticker    string
	TradeDate time.Time
	AdjClose  float64

	// Position of the close inside the trailing price corridor, 0..1.
	PricePos *float64
	// Standardized deviation from the trailing mean.
	ZScore *float64
	// Trend moving average of the close.
	TrendMA *float64
	// Trailing realized volatility of daily returns.
	Vol *float64
	// True when Vol is not in the top quantile of its own trailing history.
	VolNotTop *bool
}

// BucketAssignment holds the two decile bucket assignments for one
// ticker/day. Bucket 1 is always the cheapest / most negative tail and
// bucket 10 the most expensive / most positive tail, relative to that
// ticker's own available-to-date distribution.
type BucketAssignment struct {
	Ticker       string
	TradeDate    time.Time
	RegimeBucket int `json:"regime_bucket,omitempty"`
	ZScoreBucket int `json:"zscore_bucket,omitempty"`
}

// HasBuckets reports whether both deciles were assignable.
func (b BucketAssignment) HasBuckets() bool {
	return b.RegimeBucket != BucketNone && b.ZScoreBucket != BucketNone
}
