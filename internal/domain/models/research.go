package models

import "time"

// PeriodLabel is a temporal robustness split over a ticker's date range.
// It is used only for comparing evidence across time, never for
// classification.
type PeriodLabel string

const (
	PeriodEarly PeriodLabel = "EARLY"
	PeriodLate  PeriodLabel = "LATE"
	PeriodFull  PeriodLabel = "FULL"
)

// IsValidPeriod returns true for a supported period label.
func IsValidPeriod(p PeriodLabel) bool {
	return p == PeriodEarly || p == PeriodLate || p == PeriodFull
}

// ResearchRow is one signal day joined with its forward returns. This is the
// research lineage: the forward returns here are look-ahead values and exist
// only for evidence aggregation, never for classification.
type ResearchRow struct {
	Ticker       string
	TradeDate    time.Time
	State        string
	RegimeBucket int
	ZScoreBucket int
	PeriodLabel  PeriodLabel
	IsEntry      bool
	// Horizon → forward return; nil when the window runs past the series end.
	FwdReturns map[Horizon]*float64
}

// EvidenceBasis selects which research rows enter an aggregation.
type EvidenceBasis string

const (
	BasisAllDays     EvidenceBasis = "all_days"
	BasisEntriesOnly EvidenceBasis = "entries_only"
)

// IsValidBasis returns true for a supported evidence basis.
func IsValidBasis(b EvidenceBasis) bool {
	return b == BasisAllDays || b == BasisEntriesOnly
}

// EvidenceRow is an aggregated forward-return summary for one
// (ticker, state, period, horizon) group. Statistics are nil when the group
// has fewer valid observations than the minimum sample threshold; NObs is
// always populated so callers can tell "no effect" from "no data".
type EvidenceRow struct {
	Ticker      string      `json:"ticker"`
	State       string      `json:"state"`
	PeriodLabel PeriodLabel `json:"period_label"`
	Horizon     Horizon     `json:"horizon"`
	NObs        int         `json:"n_obs"`
	Mean        *float64    `json:"mean"`
	Median      *float64    `json:"median"`
	WinRate     *float64    `json:"win_rate"`
}

// PooledEvidence is the n_obs-weighted pool of per-ticker evidence for one
// period label.
type PooledEvidence struct {
	PeriodLabel PeriodLabel `json:"period_label"`
	NObs        int         `json:"n_obs"`
	Mean        *float64    `json:"mean"`
	WinRate     *float64    `json:"win_rate"`
}

// SurfaceCell is one cell of the regime × z-score evidence heatmap.
type SurfaceCell struct {
	RegimeBucket int      `json:"regime_bucket"`
	ZScoreBucket int      `json:"zscore_bucket"`
	NObs         int      `json:"n_obs"`
	Mean         *float64 `json:"mean"`
	WinRate      *float64 `json:"win_rate"`
}

// CorrelationRow is the lagged sentiment/forward-return correlation for one
// ticker. Correlation is nil below the minimum overlap or under degenerate
// variance.
type CorrelationRow struct {
	Ticker      string   `json:"ticker"`
	Lag         int      `json:"lag"`
	NObs        int      `json:"n_obs"`
	Correlation *float64 `json:"correlation"`
}

// SentimentBucketRow is the pooled forward-return summary for one lagged
// sentiment decile.
type SentimentBucketRow struct {
	Bucket int      `json:"sentiment_bucket"`
	NObs   int      `json:"n_obs"`
	Mean   *float64 `json:"mean"`
}

// InteractionCell is one cell of the regime bucket × sentiment bucket grid.
type InteractionCell struct {
	RegimeBucket    int      `json:"regime_bucket"`
	SentimentBucket int      `json:"sentiment_bucket"`
	NObs            int      `json:"n_obs"`
	Mean            *float64 `json:"mean"`
}

// CurveMode selects the compounding policy of the curve simulator.
type CurveMode string

const (
	CurveAllDays             CurveMode = "all_days"
	CurveStateGated          CurveMode = "state_gated_overlap"
	CurveStateGatedNoOverlap CurveMode = "state_gated_no_overlap"
)

// IsValidCurveMode returns true for a supported curve mode.
func IsValidCurveMode(m CurveMode) bool {
	switch m {
	case CurveAllDays, CurveStateGated, CurveStateGatedNoOverlap:
		return true
	default:
		return false
	}
}

// CurvePoint is one step of a demonstration equity curve.
type CurvePoint struct {
	TradeDate time.Time `json:"trade_date"`
	IsTrade   bool      `json:"is_trade"`
	Step      float64   `json:"step"`
	Equity    float64   `json:"equity"`
}
