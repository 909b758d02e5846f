package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MagIntel/internal/domain/models"
	domrepo "MagIntel/internal/domain/repository"
	"MagIntel/internal/services/research"
	"MagIntel/internal/services/signal"
	"MagIntel/pkg/cache"
	xlogger "MagIntel/pkg/logger"
	xutil "MagIntel/pkg/util"
)

// ResearchUseCase joins the production signal rows with forward returns and
// sentiment, and serves the evidence surfaces. Everything here is research
// lineage: look-ahead joins are intentional and never flow back into
// classification.
type ResearchUseCase struct {
	engine      *SignalEngine
	fwd         domrepo.ForwardReturnFeed
	sentiment   domrepo.SentimentFeed
	agg         *research.Aggregator
	corr        *research.CorrelationEngine
	cache       cache.Service
	evidenceTTL time.Duration
	metrics     domrepo.Metrics
	logger      *xlogger.Logger
	timeout     time.Duration
	source      string
}

func NewResearchUseCase(
	engine *SignalEngine,
	fwd domrepo.ForwardReturnFeed,
	sentiment domrepo.SentimentFeed,
	cacheSvc cache.Service,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	sentimentSource string,
	evidenceTTL time.Duration,
) *ResearchUseCase {
	if sentimentSource == "" {
		sentimentSource = "news"
	}
	if evidenceTTL <= 0 {
		evidenceTTL = 15 * time.Minute
	}
	return &ResearchUseCase{
		engine:      engine,
		fwd:         fwd,
		sentiment:   sentiment,
		agg:         research.NewAggregator(),
		corr:        research.NewCorrelationEngine(),
		cache:       cacheSvc,
		evidenceTTL: evidenceTTL,
		metrics:     metrics,
		logger:      logger,
		timeout:     30 * time.Second,
		source:      sentimentSource,
	}
}

type fwdKey struct {
	date    string
	horizon models.Horizon
}

// researchRows builds one ticker's research lineage: signal rows labeled
// with period splits, entry flags and joined forward returns.
func (uc *ResearchUseCase) researchRows(ctx context.Context, ticker string, system models.SignalSystem) ([]models.ResearchRow, error) {
	signals, err := uc.engine.Signals(ctx, ticker)
	if err != nil {
		return nil, err
	}

	horizons := models.Horizons()
	fwds, err := uc.fwd.ForwardReturns(ctx, ticker, horizons)
	if err != nil {
		uc.metrics.RecordError("forward_return_feed")
		return nil, fmt.Errorf("forward returns %s: %w", ticker, err)
	}
	fwdByKey := make(map[fwdKey]float64, len(fwds))
	for _, f := range fwds {
		fwdByKey[fwdKey{date: xutil.FormatTradeDate(f.TradeDate), horizon: f.Horizon}] = f.Value
	}

	dates := make([]time.Time, len(signals))
	states := make([]string, len(signals))
	for i, s := range signals {
		dates[i] = s.TradeDate
		states[i] = s.StateFor(system)
	}
	labels := research.SplitLabels(dates)
	entries := signal.MarkEntries(system, states)

	rows := make([]models.ResearchRow, len(signals))
	for i, s := range signals {
		returns := make(map[models.Horizon]*float64, len(horizons))
		for _, h := range horizons {
			if v, ok := fwdByKey[fwdKey{date: xutil.FormatTradeDate(s.TradeDate), horizon: h}]; ok {
				value := v
				returns[h] = &value
			} else {
				returns[h] = nil
			}
		}
		rows[i] = models.ResearchRow{
			Ticker:       s.Ticker,
			TradeDate:    s.TradeDate,
			State:        states[i],
			RegimeBucket: s.RegimeBucket,
			ZScoreBucket: s.ZScoreBucket,
			PeriodLabel:  labels[i],
			IsEntry:      entries[i],
			FwdReturns:   returns,
		}
	}
	uc.metrics.RecordRowsComputed("research", ticker, len(rows))
	return rows, nil
}

func (uc *ResearchUseCase) universe(tickers []string) []string {
	if len(tickers) > 0 {
		return tickers
	}
	return uc.engine.Tickers()
}

// EvidenceParams selects the evidence aggregation.
type EvidenceParams struct {
	Tickers []string
	System  models.SignalSystem
	State   string
	Horizon models.Horizon
	Period  models.PeriodLabel
	Basis   models.EvidenceBasis
}

// EvidenceResult carries per-ticker evidence rows and their weighted pool.
type EvidenceResult struct {
	Rows   []models.EvidenceRow    `json:"rows"`
	Pooled []models.PooledEvidence `json:"pooled"`
}

// Evidence aggregates forward-return evidence across the requested tickers.
func (uc *ResearchUseCase) Evidence(ctx context.Context, p EvidenceParams) (*EvidenceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if !models.IsValidSystem(p.System) {
		return nil, fmt.Errorf("unknown signal system %q", p.System)
	}
	if !models.IsValidBasis(p.Basis) {
		return nil, fmt.Errorf("unknown evidence basis %q", p.Basis)
	}

	key := uc.evidenceKey(p)
	if uc.cache != nil {
		var cached EvidenceResult
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	var all []models.ResearchRow
	for _, ticker := range uc.universe(p.Tickers) {
		rows, err := uc.researchRows(ctx, ticker, p.System)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}

	evidence := uc.agg.Aggregate(all, p.Basis, []models.Horizon{p.Horizon})

	filtered := evidence[:0:0]
	for _, row := range evidence {
		if p.State != "" && row.State != p.State {
			continue
		}
		if p.Period != "" && p.Period != models.PeriodFull && row.PeriodLabel != p.Period {
			continue
		}
		filtered = append(filtered, row)
	}

	res := &EvidenceResult{
		Rows:   filtered,
		Pooled: uc.agg.Pool(filtered),
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, *res, uc.evidenceTTL); err != nil {
			uc.logger.Warn("evidence cache set failed", xlogger.Error(err))
		}
	}
	return res, nil
}

// evidenceKey hashes the full parameter set so any selector change misses.
func (uc *ResearchUseCase) evidenceKey(p EvidenceParams) string {
	params := cache.GenerateKeyWithParams("evidence",
		strings.Join(uc.universe(p.Tickers), ","),
		p.System, p.State, int(p.Horizon), p.Period, p.Basis)
	return cache.GenerateKey("evidence", cache.HashKey(params))
}

// SurfaceParams selects one regime/z-score evidence heatmap.
type SurfaceParams struct {
	Tickers []string
	State   string
	Horizon models.Horizon
	Period  models.PeriodLabel
}

// Surface builds the regime bucket by z-score bucket heatmap pooled across
// the universe. The surface is defined on the core system's states.
func (uc *ResearchUseCase) Surface(ctx context.Context, p SurfaceParams) ([]models.SurfaceCell, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var all []models.ResearchRow
	for _, ticker := range uc.universe(p.Tickers) {
		rows, err := uc.researchRows(ctx, ticker, models.SystemS0)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	period := p.Period
	if period == "" {
		period = models.PeriodFull
	}
	return uc.agg.Surface(all, p.State, period, p.Horizon), nil
}

// CorrelationParams selects the lagged sentiment study.
type CorrelationParams struct {
	Tickers []string
	Lag     int
	Horizon models.Horizon
	Source  string
}

// CorrelationResult carries per-ticker correlations plus the pooled
// sentiment decile table and the regime interaction grid.
type CorrelationResult struct {
	Rows        []models.CorrelationRow    `json:"rows"`
	Buckets     []models.SentimentBucketRow `json:"buckets"`
	Interaction []models.InteractionCell   `json:"interaction"`
}

// Correlation relates lagged sentiment to forward returns per ticker and
// pooled across the universe.
func (uc *ResearchUseCase) Correlation(ctx context.Context, p CorrelationParams) (*CorrelationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	source := p.Source
	if source == "" {
		source = uc.source
	}

	result := &CorrelationResult{}
	var pooled []research.BucketObs

	for _, ticker := range uc.universe(p.Tickers) {
		rows, err := uc.researchRows(ctx, ticker, models.SystemS0)
		if err != nil {
			return nil, err
		}

		sentPoints, err := uc.sentiment.SentimentHistory(ctx, ticker, source)
		if err != nil {
			uc.metrics.RecordError("sentiment_feed")
			return nil, fmt.Errorf("sentiment %s: %w", ticker, err)
		}
		scoreByDate := make(map[string]float64, len(sentPoints))
		for _, sp := range sentPoints {
			scoreByDate[xutil.FormatTradeDate(sp.TradeDate)] = sp.Score
		}

		// Align sentiment and forward returns to the signal calendar.
		sent := make([]*float64, len(rows))
		fwd := make([]*float64, len(rows))
		for i, row := range rows {
			if v, ok := scoreByDate[xutil.FormatTradeDate(row.TradeDate)]; ok {
				score := v
				sent[i] = &score
			}
			fwd[i] = row.FwdReturns[p.Horizon]
		}

		result.Rows = append(result.Rows, uc.corr.Correlate(ticker, sent, fwd, p.Lag))

		sentBuckets := uc.corr.SentimentBuckets(sent, p.Lag)
		for i, row := range rows {
			pooled = append(pooled, research.BucketObs{
				SentimentBucket: sentBuckets[i],
				RegimeBucket:    row.RegimeBucket,
				Fwd:             fwd[i],
			})
		}
	}

	result.Buckets = uc.corr.BucketTable(pooled)
	result.Interaction = uc.corr.Interaction(pooled)
	return result, nil
}

// CurveParams selects one demonstration equity curve.
type CurveParams struct {
	Ticker  string
	System  models.SignalSystem
	State   string
	Mode    models.CurveMode
	Horizon models.Horizon
	Period  models.PeriodLabel
}

// Curve simulates one ticker's equity curve under the selected gating mode.
func (uc *ResearchUseCase) Curve(ctx context.Context, p CurveParams) ([]models.CurvePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if !models.IsValidSystem(p.System) {
		return nil, fmt.Errorf("unknown signal system %q", p.System)
	}

	rows, err := uc.researchRows(ctx, p.Ticker, p.System)
	if err != nil {
		return nil, err
	}
	if p.Period != "" && p.Period != models.PeriodFull {
		kept := rows[:0:0]
		for _, row := range rows {
			if row.PeriodLabel == p.Period {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	return research.Simulate(rows, p.Mode, p.State, p.Horizon)
}
