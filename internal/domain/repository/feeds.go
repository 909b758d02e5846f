package repository

import (
	"context"

	"MagIntel/internal/domain/models"
)

// PriceFeed provides the ordered daily price history per ticker.
type PriceFeed interface {
	Tickers(ctx context.Context) ([]string, error)
	PriceHistory(ctx context.Context, ticker string) ([]models.PricePoint, error)
}

// ForwardReturnFeed provides look-ahead returns (research lineage only).
type ForwardReturnFeed interface {
	ForwardReturns(ctx context.Context, ticker string, horizons []models.Horizon) ([]models.ForwardReturn, error)
}

// SentimentFeed provides one scalar sentiment per (ticker, date, source).
type SentimentFeed interface {
	SentimentHistory(ctx context.Context, ticker, source string) ([]models.SentimentPoint, error)
}

// BarWriter persists ingested daily bars.
type BarWriter interface {
	StoreBar(ctx context.Context, p *models.PricePoint) error
	StoreBarBatch(ctx context.Context, bars []*models.PricePoint) error
}

// Publisher emits entry events for downstream consumers.
type Publisher interface {
	PublishEntries(ctx context.Context, entries []models.Entry) error
	Close() error
}

// Metrics records operational metrics for the engine.
type Metrics interface {
	RecordRowsComputed(stage, ticker string, n int)
	RecordError(kind string)
	RecordLastClose(ticker string, price float64)
	RecordLatency(op string, seconds float64)
}
