package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"MagIntel/internal/domain/models"
	domrepo "MagIntel/internal/domain/repository"
	"MagIntel/internal/services/bucket"
	"MagIntel/internal/services/signal"
	"MagIntel/pkg/cache"
	xlogger "MagIntel/pkg/logger"
	xutil "MagIntel/pkg/util"
)

// EngineConfig holds the signal engine's tunables.
type EngineConfig struct {
	Tickers  []string
	Bucket   bucket.Config
	S0       signal.S0Policy
	S1       signal.S1Policy
	Workers  int
	Timeout  time.Duration
	CacheTTL time.Duration
}

// SignalEngine runs the production lineage: price history in, classified
// signal rows and entry events out. Results are memoized per
// (ticker, as-of-date), so repeated reads of an unchanged history never
// recompute.
type SignalEngine struct {
	cfg       EngineConfig
	prices    domrepo.PriceFeed
	publisher domrepo.Publisher
	cache     cache.Service
	metrics   domrepo.Metrics
	logger    *xlogger.Logger
	assigner  *bucket.Assigner
}

func NewSignalEngine(
	cfg EngineConfig,
	prices domrepo.PriceFeed,
	publisher domrepo.Publisher,
	cacheSvc cache.Service,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) (*SignalEngine, error) {
	if err := cfg.S0.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if err := cfg.S1.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &SignalEngine{
		cfg:       cfg,
		prices:    prices,
		publisher: publisher,
		cache:     cacheSvc,
		metrics:   metrics,
		logger:    logger,
		assigner:  bucket.NewAssigner(cfg.Bucket),
	}, nil
}

// Tickers returns the configured universe.
func (e *SignalEngine) Tickers() []string { return e.cfg.Tickers }

// Signals computes (or returns memoized) classified rows for one ticker.
func (e *SignalEngine) Signals(ctx context.Context, ticker string) ([]models.SignalRow, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}

	points, err := e.prices.PriceHistory(ctx, ticker)
	if err != nil {
		e.metrics.RecordError("price_feed")
		return nil, fmt.Errorf("price history %s: %w", ticker, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNoHistory, ticker)
	}

	points = normalizeHistory(points)
	asof := points[len(points)-1].TradeDate

	key := cache.GenerateKeyWithParams("signals", ticker, xutil.FormatTradeDate(asof))
	if e.cache != nil {
		var cached []models.SignalRow
		if err := e.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	start := time.Now()
	features, buckets := e.assigner.Assign(points)
	rows := signal.BuildSignalRows(features, buckets, e.cfg.S0, e.cfg.S1)
	e.metrics.RecordLatency("signals_compute", time.Since(start).Seconds())
	e.metrics.RecordRowsComputed("signals", ticker, len(rows))
	e.metrics.RecordLastClose(ticker, rows[len(rows)-1].AdjClose)

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, rows, e.cfg.CacheTTL); err != nil {
			e.logger.Warn("signal cache set failed", xlogger.String("ticker", ticker), xlogger.Error(err))
		}
	}
	return rows, nil
}

// Entries returns the entry events of one ticker in the given system.
func (e *SignalEngine) Entries(ctx context.Context, ticker string, system models.SignalSystem) ([]models.Entry, error) {
	if !models.IsValidSystem(system) {
		return nil, fmt.Errorf("unknown signal system %q", system)
	}
	rows, err := e.Signals(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return signal.Entries(rows, system), nil
}

// RecomputeAll classifies the whole universe with a bounded worker pool and
// publishes the detected entry events. Per-ticker failures are logged and
// skipped; the pass only fails if the context dies.
func (e *SignalEngine) RecomputeAll(ctx context.Context) ([]models.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	type result struct {
		ticker  string
		entries []models.Entry
		err     error
	}

	jobs := make(chan string)
	results := make(chan result, len(e.cfg.Tickers))
	var wg sync.WaitGroup

	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				var all []models.Entry
				var err error
				for _, system := range []models.SignalSystem{models.SystemS0, models.SystemS1} {
					var entries []models.Entry
					entries, err = e.Entries(ctx, ticker, system)
					if err != nil {
						break
					}
					all = append(all, entries...)
				}
				results <- result{ticker: ticker, entries: all, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range e.cfg.Tickers {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() { wg.Wait(); close(results) }()

	var entries []models.Entry
	for r := range results {
		if r.err != nil {
			e.metrics.RecordError("recompute")
			e.logger.Warn("recompute failed", xlogger.String("ticker", r.ticker), xlogger.Error(r.err))
			continue
		}
		entries = append(entries, r.entries...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].TradeDate.Equal(entries[j].TradeDate) {
			return entries[i].TradeDate.Before(entries[j].TradeDate)
		}
		return entries[i].Ticker < entries[j].Ticker
	})

	if e.publisher != nil && len(entries) > 0 {
		if err := e.publisher.PublishEntries(ctx, entries); err != nil {
			e.metrics.RecordError("publish_entries")
			e.logger.Error("publish entries failed", xlogger.Error(err))
		}
	}
	e.logger.Info("recompute pass complete",
		xlogger.Int("tickers", len(e.cfg.Tickers)),
		xlogger.Int("entries", len(entries)))
	return entries, nil
}

// normalizeHistory sorts bars by date and keeps the last bar per date. The
// feed already orders its output; this guards against late re-ingests.
func normalizeHistory(points []models.PricePoint) []models.PricePoint {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].TradeDate.Before(points[j].TradeDate)
	})
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].TradeDate.Equal(p.TradeDate) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
