package bucket

import (
	"math"

	"MagIntel/internal/domain/models"
)

// FeatureConfig holds the rolling-window lengths for feature derivation.
// All windows are trailing and include the current day; nothing here ever
// reads past the observation date.
type FeatureConfig struct {
	CorridorWindow int     `yaml:"corridor_window"`
	ZScoreWindow   int     `yaml:"zscore_window"`
	TrendWindow    int     `yaml:"trend_window"`
	VolWindow      int     `yaml:"vol_window"`
	VolRankWindow  int     `yaml:"vol_rank_window"`
	VolCapQuantile float64 `yaml:"vol_cap_quantile"`
}

// DefaultFeatureConfig mirrors the canonical windows: 200d corridor,
// 20d z-score, 100d trend MA, 20d realized vol ranked over 252d.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		CorridorWindow: 200,
		ZScoreWindow:   20,
		TrendWindow:    100,
		VolWindow:      20,
		VolRankWindow:  252,
		VolCapQuantile: 0.80,
	}
}

// minVolRankObs is the minimum number of trailing vol observations before
// the top-quantile flag is considered meaningful.
const minVolRankObs = 20

// ComputeFeatures derives the rolling features for one ticker's ordered
// price series. Pointer fields stay nil until their window has filled or
// when the statistic is degenerate (zero std, flat corridor).
func ComputeFeatures(points []models.PricePoint, cfg FeatureConfig) []models.FeatureRow {
	n := len(points)
	rows := make([]models.FeatureRow, n)

	closes := make([]float64, n)
	for i, p := range points {
		closes[i] = p.AdjClose
		rows[i] = models.FeatureRow{
			Ticker:    p.Ticker,
			TradeDate: p.TradeDate,
			AdjClose:  p.AdjClose,
		}
	}

	// Log returns, r[i] is the return into day i+1.
	rets := make([]float64, 0, n)
	for i := 1; i < n; i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}

	vols := make([]*float64, n)

	for t := 0; t < n; t++ {
		// Price corridor position over the trailing window.
		lo := t - cfg.CorridorWindow + 1
		if lo < 0 {
			lo = 0
		}
		cmin, cmax := closes[t], closes[t]
		for i := lo; i <= t; i++ {
			if closes[i] < cmin {
				cmin = closes[i]
			}
			if closes[i] > cmax {
				cmax = closes[i]
			}
		}
		if cmax > cmin {
			pos := (closes[t] - cmin) / (cmax - cmin)
			rows[t].PricePos = &pos
		}

		// Z-score over the trailing window; degenerate std stays nil.
		if t >= cfg.ZScoreWindow-1 {
			mean, std := meanStd(closes[t-cfg.ZScoreWindow+1 : t+1])
			if std > 0 {
				z := (closes[t] - mean) / std
				rows[t].ZScore = &z
			}
		}

		// Trend moving average.
		if t >= cfg.TrendWindow-1 {
			var sum float64
			for i := t - cfg.TrendWindow + 1; i <= t; i++ {
				sum += closes[i]
			}
			ma := sum / float64(cfg.TrendWindow)
			rows[t].TrendMA = &ma
		}

		// Realized vol of the trailing VolWindow returns.
		if t >= cfg.VolWindow {
			_, sigma := meanStd(rets[t-cfg.VolWindow : t])
			v := sigma
			rows[t].Vol = &v
			vols[t] = &v
		}
	}

	// Vol percentile flag: is today's vol outside the top quantile of its
	// own trailing VolRankWindow history.
	for t := 0; t < n; t++ {
		if vols[t] == nil {
			continue
		}
		lo := t - cfg.VolRankWindow + 1
		if lo < 0 {
			lo = 0
		}
		count, below := 0, 0
		for i := lo; i <= t; i++ {
			if vols[i] == nil {
				continue
			}
			count++
			if *vols[i] <= *vols[t] {
				below++
			}
		}
		if count < minVolRankObs {
			continue
		}
		notTop := float64(below)/float64(count) <= cfg.VolCapQuantile
		rows[t].VolNotTop = &notTop
	}

	return rows
}

func meanStd(xs []float64) (float64, float64) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	variance := ss / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
