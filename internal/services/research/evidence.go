package research

import (
	"sort"

	"MagIntel/internal/domain/models"
)

// MinSample is the minimum group size below which summary statistics are
// suppressed. NObs is still reported so callers can distinguish a weak
// effect from missing data.
const MinSample = 10

// Aggregator computes forward-return evidence summaries.
type Aggregator struct {
	minSample int
}

// NewAggregator returns an aggregator with the standard minimum sample.
func NewAggregator() *Aggregator {
	return &Aggregator{minSample: MinSample}
}

type stats struct {
	n       int
	mean    float64
	median  float64
	winRate float64
}

// summarize collapses the non-nil returns of a group. ok is false when the
// group is below the minimum sample.
func (a *Aggregator) summarize(returns []float64) (stats, bool) {
	n := len(returns)
	if n < a.minSample {
		return stats{n: n}, false
	}
	var sum float64
	wins := 0
	for _, r := range returns {
		sum += r
		if r > 0 {
			wins++
		}
	}
	sorted := make([]float64, n)
	copy(sorted, returns)
	sort.Float64s(sorted)
	var med float64
	if n%2 == 1 {
		med = sorted[n/2]
	} else {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return stats{
		n:       n,
		mean:    sum / float64(n),
		median:  med,
		winRate: float64(wins) / float64(n),
	}, true
}

type groupKey struct {
	ticker  string
	state   string
	period  models.PeriodLabel
	horizon models.Horizon
}

// Aggregate summarizes forward returns per (ticker, state, period, horizon)
// group. Every group produces rows for EARLY, LATE and FULL so temporal
// drift is visible side by side. basis selects whether every day or only
// entry days contribute.
func (a *Aggregator) Aggregate(rows []models.ResearchRow, basis models.EvidenceBasis, horizons []models.Horizon) []models.EvidenceRow {
	groups := make(map[groupKey][]float64)
	for _, row := range rows {
		if basis == models.BasisEntriesOnly && !row.IsEntry {
			continue
		}
		for _, h := range horizons {
			r := row.FwdReturns[h]
			if r == nil {
				continue
			}
			for _, period := range []models.PeriodLabel{row.PeriodLabel, models.PeriodFull} {
				k := groupKey{ticker: row.Ticker, state: row.State, period: period, horizon: h}
				groups[k] = append(groups[k], *r)
			}
		}
	}

	out := make([]models.EvidenceRow, 0, len(groups))
	for k, returns := range groups {
		row := models.EvidenceRow{
			Ticker:      k.ticker,
			State:       k.state,
			PeriodLabel: k.period,
			Horizon:     k.horizon,
			NObs:        len(returns),
		}
		if s, ok := a.summarize(returns); ok {
			mean, med, wr := s.mean, s.median, s.winRate
			row.Mean, row.Median, row.WinRate = &mean, &med, &wr
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		if out[i].PeriodLabel != out[j].PeriodLabel {
			return out[i].PeriodLabel < out[j].PeriodLabel
		}
		return out[i].Horizon < out[j].Horizon
	})
	return out
}

// Pool combines per-ticker evidence rows into one pooled row per period
// label, weighting each ticker's contribution by its n_obs. Rows whose
// statistics were suppressed contribute nothing; a period whose pooled size
// is still below the minimum sample gets nil statistics.
func (a *Aggregator) Pool(rows []models.EvidenceRow) []models.PooledEvidence {
	type acc struct {
		n       int
		meanSum float64
		winSum  float64
	}
	pools := make(map[models.PeriodLabel]*acc)
	for _, r := range rows {
		if r.Mean == nil || r.WinRate == nil {
			continue
		}
		p, ok := pools[r.PeriodLabel]
		if !ok {
			p = &acc{}
			pools[r.PeriodLabel] = p
		}
		p.n += r.NObs
		p.meanSum += *r.Mean * float64(r.NObs)
		p.winSum += *r.WinRate * float64(r.NObs)
	}

	out := make([]models.PooledEvidence, 0, len(pools))
	for period, p := range pools {
		row := models.PooledEvidence{PeriodLabel: period, NObs: p.n}
		if p.n >= a.minSample {
			mean := p.meanSum / float64(p.n)
			wr := p.winSum / float64(p.n)
			row.Mean, row.WinRate = &mean, &wr
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodLabel < out[j].PeriodLabel })
	return out
}

// Surface builds the regime bucket by z-score bucket heatmap for one state,
// period and horizon, pooled across tickers. Days without both buckets are
// excluded.
func (a *Aggregator) Surface(rows []models.ResearchRow, state string, period models.PeriodLabel, h models.Horizon) []models.SurfaceCell {
	type cellKey struct{ regime, z int }
	cells := make(map[cellKey][]float64)
	for _, row := range rows {
		if row.State != state || !inPeriod(row.PeriodLabel, period) {
			continue
		}
		if row.RegimeBucket == models.BucketNone || row.ZScoreBucket == models.BucketNone {
			continue
		}
		r := row.FwdReturns[h]
		if r == nil {
			continue
		}
		k := cellKey{regime: row.RegimeBucket, z: row.ZScoreBucket}
		cells[k] = append(cells[k], *r)
	}

	out := make([]models.SurfaceCell, 0, len(cells))
	for k, returns := range cells {
		cell := models.SurfaceCell{
			RegimeBucket: k.regime,
			ZScoreBucket: k.z,
			NObs:         len(returns),
		}
		if s, ok := a.summarize(returns); ok {
			mean, wr := s.mean, s.winRate
			cell.Mean, cell.WinRate = &mean, &wr
		}
		out = append(out, cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegimeBucket != out[j].RegimeBucket {
			return out[i].RegimeBucket < out[j].RegimeBucket
		}
		return out[i].ZScoreBucket < out[j].ZScoreBucket
	})
	return out
}
