package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MagIntel/internal/domain/models"
	"MagIntel/internal/domain/repository"
)

const (
	barsTable      = "market_bars"
	sentimentTable = "sentiment_scores"
)

// requiredColumns are the feed columns the engine refuses to run without.
var requiredColumns = map[string][]string{
	barsTable:      {"ticker", "trade_date", "adj_close"},
	sentimentTable: {"ticker", "trade_date", "source", "score"},
}

// ClickHouseMarketStore implements the price, forward-return and sentiment
// feeds plus bar ingestion on ClickHouse.
type ClickHouseMarketStore struct {
	db *sql.DB
}

// NewClickHouseMarketStore creates the ClickHouse-backed market store.
func NewClickHouseMarketStore(db *sql.DB) *ClickHouseMarketStore {
	return &ClickHouseMarketStore{db: db}
}

// VerifySchema checks that both feed tables carry their required columns.
// A missing column is fatal: the caller gets a SchemaError, never a default.
func (s *ClickHouseMarketStore) VerifySchema(ctx context.Context) error {
	for table, required := range requiredColumns {
		rows, err := s.db.QueryContext(ctx,
			"SELECT name FROM system.columns WHERE database = currentDatabase() AND table = ?", table)
		if err != nil {
			return fmt.Errorf("verify schema %s: %w", table, err)
		}
		present := make(map[string]bool)
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("verify schema %s: %w", table, err)
			}
			present[name] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("verify schema %s: %w", table, err)
		}
		rows.Close()

		var missing []string
		for _, col := range required {
			if !present[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return models.NewSchemaError(table, missing...)
		}
	}
	return nil
}

// Tickers lists every ticker with stored bars.
func (s *ClickHouseMarketStore) Tickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT ticker FROM %s ORDER BY ticker", barsTable))
	if err != nil {
		return nil, fmt.Errorf("tickers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("tickers scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PriceHistory returns one ticker's bars ordered by date. Re-ingested dates
// are collapsed to the latest version.
func (s *ClickHouseMarketStore) PriceHistory(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	q := fmt.Sprintf(
		"SELECT trade_date, adj_close FROM %s FINAL WHERE ticker = ? ORDER BY trade_date", barsTable)
	rows, err := s.db.QueryContext(ctx, q, ticker)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()

	var out []models.PricePoint
	for rows.Next() {
		var date time.Time
		var close float64
		if err := rows.Scan(&date, &close); err != nil {
			return nil, fmt.Errorf("price history scan: %w", err)
		}
		out = append(out, models.PricePoint{Ticker: ticker, TradeDate: date, AdjClose: close})
	}
	return out, rows.Err()
}

// ForwardReturns derives look-ahead simple returns from the stored bars:
// value = close[t+h]/close[t] - 1. Days whose window runs past the series
// end produce no row. Research lineage only.
func (s *ClickHouseMarketStore) ForwardReturns(ctx context.Context, ticker string, horizons []models.Horizon) ([]models.ForwardReturn, error) {
	points, err := s.PriceHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var out []models.ForwardReturn
	for _, h := range horizons {
		lead := int(h)
		for t := 0; t+lead < len(points); t++ {
			if points[t].AdjClose <= 0 {
				continue
			}
			out = append(out, models.ForwardReturn{
				Ticker:    ticker,
				TradeDate: points[t].TradeDate,
				Horizon:   h,
				Value:     points[t+lead].AdjClose/points[t].AdjClose - 1,
			})
		}
	}
	return out, nil
}

// SentimentHistory returns one ticker's sentiment series for a source,
// ordered by date.
func (s *ClickHouseMarketStore) SentimentHistory(ctx context.Context, ticker, source string) ([]models.SentimentPoint, error) {
	q := fmt.Sprintf(
		"SELECT trade_date, score FROM %s FINAL WHERE ticker = ? AND source = ? ORDER BY trade_date", sentimentTable)
	rows, err := s.db.QueryContext(ctx, q, ticker, source)
	if err != nil {
		return nil, fmt.Errorf("sentiment history: %w", err)
	}
	defer rows.Close()

	var out []models.SentimentPoint
	for rows.Next() {
		var date time.Time
		var score float64
		if err := rows.Scan(&date, &score); err != nil {
			return nil, fmt.Errorf("sentiment history scan: %w", err)
		}
		out = append(out, models.SentimentPoint{Ticker: ticker, TradeDate: date, Source: source, Score: score})
	}
	return out, rows.Err()
}

// StoreBar inserts a single daily bar.
func (s *ClickHouseMarketStore) StoreBar(ctx context.Context, p *models.PricePoint) error {
	q := fmt.Sprintf("INSERT INTO %s (ticker, trade_date, adj_close, ingested_at) VALUES (?, ?, ?, ?)", barsTable)
	_, err := s.db.ExecContext(ctx, q, p.Ticker, p.TradeDate, p.AdjClose, time.Now())
	return err
}

// StoreBarBatch inserts bars in chunks to limit round-trips.
func (s *ClickHouseMarketStore) StoreBarBatch(ctx context.Context, bars []*models.PricePoint) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	now := time.Now()
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, p := range bars[start:end] {
			if p == nil || p.Ticker == "" || p.TradeDate.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, p.Ticker, p.TradeDate, p.AdjClose, now)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ticker, trade_date, adj_close, ingested_at) VALUES %s",
			barsTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// Health pings the underlying connection.
func (s *ClickHouseMarketStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var (
	_ repository.PriceFeed         = (*ClickHouseMarketStore)(nil)
	_ repository.ForwardReturnFeed = (*ClickHouseMarketStore)(nil)
	_ repository.SentimentFeed     = (*ClickHouseMarketStore)(nil)
	_ repository.BarWriter         = (*ClickHouseMarketStore)(nil)
)
