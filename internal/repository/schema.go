package repository

// Schema returns the idempotent DDL for the market store. ReplacingMergeTree
// keyed on ingestion time collapses re-ingested rows to the latest version.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS market_bars (
			ticker      LowCardinality(String),
			trade_date  Date,
			adj_close   Float64,
			ingested_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(ingested_at)
		ORDER BY (ticker, trade_date)`,

		`CREATE TABLE IF NOT EXISTS sentiment_scores (
			ticker      LowCardinality(String),
			trade_date  Date,
			source      LowCardinality(String),
			score       Float64,
			ingested_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(ingested_at)
		ORDER BY (ticker, source, trade_date)`,
	}
}
