package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MagIntel/internal/domain/models"
	domrepo "MagIntel/internal/domain/repository"
	"MagIntel/internal/services/bucket"
	"MagIntel/internal/services/signal"
	"MagIntel/pkg/cache"
	xlogger "MagIntel/pkg/logger"
)

type fakePriceFeed struct {
	mu    sync.Mutex
	hist  map[string][]models.PricePoint
	calls map[string]int
	err   error
}

func (f *fakePriceFeed) Tickers(context.Context) ([]string, error) {
	out := make([]string, 0, len(f.hist))
	for t := range f.hist {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakePriceFeed) PriceHistory(_ context.Context, ticker string) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[ticker]++
	if f.err != nil {
		return nil, f.err
	}
	return f.hist[ticker], nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	errors   []string
	computed map[string]int
}

func (m *fakeMetrics) RecordRowsComputed(stage, _ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.computed == nil {
		m.computed = make(map[string]int)
	}
	m.computed[stage]++
}
func (m *fakeMetrics) RecordLastClose(string, float64)        {}
func (m *fakeMetrics) RecordLatency(string, float64)          {}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

type fakePublisher struct {
	mu      sync.Mutex
	entries []models.Entry
	calls   int
}

func (p *fakePublisher) PublishEntries(_ context.Context, entries []models.Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.entries = append(p.entries, entries...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testEngineConfig(tickers ...string) EngineConfig {
	return EngineConfig{
		Tickers: tickers,
		Bucket: bucket.Config{
			MinObs: 3,
			Features: bucket.FeatureConfig{
				CorridorWindow: 5,
				ZScoreWindow:   3,
				TrendWindow:    4,
				VolWindow:      3,
				VolRankWindow:  10,
				VolCapQuantile: 0.80,
			},
		},
		S0:      signal.DefaultS0Policy(),
		S1:      signal.DefaultS1Policy(),
		Workers: 2,
		Timeout: 5 * time.Second,
	}
}

func history(ticker string, n int, price func(i int) float64) []models.PricePoint {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, n)
	for i := range out {
		out[i] = models.PricePoint{
			Ticker:    ticker,
			TradeDate: start.AddDate(0, 0, i),
			AdjClose:  price(i),
		}
	}
	return out
}

func newTestEngine(t *testing.T, feed *fakePriceFeed, pub *fakePublisher, tickers ...string) (*SignalEngine, *fakeMetrics) {
	t.Helper()
	m := &fakeMetrics{}
	// A nil *fakePublisher must stay a nil interface, or the engine's
	// publisher guard sees a non-nil value wrapping a nil pointer.
	var publisher domrepo.Publisher
	if pub != nil {
		publisher = pub
	}
	e, err := NewSignalEngine(testEngineConfig(tickers...), feed, publisher, cache.NewMemoryCache(), m, testLogger(t))
	if err != nil {
		t.Fatalf("NewSignalEngine: %v", err)
	}
	return e, m
}

func TestSignalsMemoized(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{
		"AAPL": history("AAPL", 40, func(i int) float64 { return 100 + float64(i) }),
	}}
	e, m := newTestEngine(t, feed, nil, "AAPL")

	rows, err := e.Signals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if len(rows) != 40 {
		t.Fatalf("expected 40 rows, got %d", len(rows))
	}

	again, err := e.Signals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Signals (cached): %v", err)
	}
	if len(again) != len(rows) {
		t.Fatalf("cached rows mismatch: %d vs %d", len(again), len(rows))
	}
	// The feed is still hit to learn the as-of date, but the second pass
	// must be served from cache without reclassifying.
	if feed.calls["AAPL"] != 2 {
		t.Fatalf("expected 2 feed calls, got %d", feed.calls["AAPL"])
	}
	if m.computed["signals"] != 1 {
		t.Fatalf("expected 1 classification pass, got %d", m.computed["signals"])
	}
}

func TestSignalsNoHistory(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{}}
	e, _ := newTestEngine(t, feed, nil, "AAPL")

	_, err := e.Signals(context.Background(), "AAPL")
	if !errors.Is(err, models.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestSignalsRowOrder(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{
		"MSFT": history("MSFT", 25, func(i int) float64 { return 300 - float64(i) }),
	}}
	e, _ := newTestEngine(t, feed, nil, "MSFT")

	rows, err := e.Signals(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].TradeDate.Before(rows[i].TradeDate) {
			t.Fatalf("rows out of order at %d: %v !< %v", i, rows[i-1].TradeDate, rows[i].TradeDate)
		}
	}
	for i, r := range rows {
		if r.Ticker != "MSFT" {
			t.Fatalf("row %d ticker = %q", i, r.Ticker)
		}
	}
}

func TestEntriesUnknownSystem(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{}}
	e, _ := newTestEngine(t, feed, nil, "AAPL")

	if _, err := e.Entries(context.Background(), "AAPL", "s9"); err == nil {
		t.Fatal("expected error for unknown system")
	}
}

func TestRecomputeAllMatchesPerTickerEntries(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{
		"AAPL": history("AAPL", 40, func(i int) float64 { return 100 + float64(i%7) }),
		"MSFT": history("MSFT", 40, func(i int) float64 { return 300 - float64(i%5) }),
	}}
	pub := &fakePublisher{}
	e, _ := newTestEngine(t, feed, pub, "AAPL", "MSFT")

	got, err := e.RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}

	var want int
	for _, ticker := range []string{"AAPL", "MSFT"} {
		for _, system := range []models.SignalSystem{models.SystemS0, models.SystemS1} {
			entries, err := e.Entries(context.Background(), ticker, system)
			if err != nil {
				t.Fatalf("Entries %s/%s: %v", ticker, system, err)
			}
			want += len(entries)
		}
	}
	if len(got) != want {
		t.Fatalf("RecomputeAll entries = %d, per-ticker sum = %d", len(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].TradeDate.Before(got[i-1].TradeDate) {
			t.Fatalf("entries not sorted at %d", i)
		}
	}
	if len(got) > 0 && len(pub.entries) != len(got) {
		t.Fatalf("published %d entries, returned %d", len(pub.entries), len(got))
	}
}

func TestRecomputeAllWithoutPublisher(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{
		"AAPL": history("AAPL", 40, func(i int) float64 { return 100 + float64(i%7) }),
	}}
	e, _ := newTestEngine(t, feed, nil, "AAPL")

	// Entries are detected but there is no publisher; the pass must still
	// complete and return them.
	entries, err := e.RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected entries from oscillating history")
	}
}

func TestRecomputeAllSkipsFailingTicker(t *testing.T) {
	feed := &fakePriceFeed{hist: map[string][]models.PricePoint{
		"AAPL": history("AAPL", 40, func(i int) float64 { return 100 + float64(i%7) }),
		// MSFT has no history and fails per ticker.
	}}
	e, m := newTestEngine(t, feed, nil, "AAPL", "MSFT")

	if _, err := e.RecomputeAll(context.Background()); err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var recomputeErrs int
	for _, kind := range m.errors {
		if kind == "recompute" {
			recomputeErrs++
		}
	}
	if recomputeErrs != 1 {
		t.Fatalf("expected 1 recompute error, got %d (%v)", recomputeErrs, m.errors)
	}
}

func TestNormalizeHistory(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	points := []models.PricePoint{
		{Ticker: "AAPL", TradeDate: d(3), AdjClose: 103},
		{Ticker: "AAPL", TradeDate: d(1), AdjClose: 101},
		{Ticker: "AAPL", TradeDate: d(2), AdjClose: 90},
		{Ticker: "AAPL", TradeDate: d(2), AdjClose: 102}, // re-ingest wins
	}

	out := normalizeHistory(points)
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	for i, want := range []float64{101, 102, 103} {
		if out[i].AdjClose != want {
			t.Fatalf("point %d close = %v, want %v", i, out[i].AdjClose, want)
		}
	}
}
