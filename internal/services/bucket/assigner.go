// Package bucket converts a ticker's ordered price series into rolling
// features and the two decile bucket series (price-percentile regime bucket
// and z-score bucket). Everything here is a pure function of trailing
// history; no field ever depends on data after the observation date.
package bucket

import "MagIntel/internal/domain/models"

// Config controls bucket assignment for one run.
type Config struct {
	// MinObs is the warm-up threshold W: days with fewer available metric
	// observations get no bucket.
	MinObs int `yaml:"min_obs"`
	// MaxWindow caps the trailing distribution used for decile cut points;
	// 0 means fully expanding.
	MaxWindow int `yaml:"max_window"`

	Features FeatureConfig `yaml:"features"`
}

// DefaultConfig returns the canonical assigner configuration.
func DefaultConfig() Config {
	return Config{
		MinObs:   10,
		Features: DefaultFeatureConfig(),
	}
}

// Assigner derives features and decile buckets for one ticker at a time.
type Assigner struct {
	cfg Config
}

// NewAssigner creates an assigner; zero-value window fields fall back to
// defaults.
func NewAssigner(cfg Config) *Assigner {
	def := DefaultConfig()
	if cfg.MinObs <= 0 {
		cfg.MinObs = def.MinObs
	}
	if cfg.Features == (FeatureConfig{}) {
		cfg.Features = def.Features
	}
	return &Assigner{cfg: cfg}
}

// Assign computes the feature rows and per-day bucket assignments for an
// ordered single-ticker price series. Input order is preserved; days inside
// the warm-up period (or with a degenerate metric) carry BucketNone.
func (a *Assigner) Assign(points []models.PricePoint) ([]models.FeatureRow, []models.BucketAssignment) {
	features := ComputeFeatures(points, a.cfg.Features)

	pos := make([]*float64, len(features))
	zs := make([]*float64, len(features))
	for i, f := range features {
		pos[i] = f.PricePos
		zs[i] = f.ZScore
	}

	regime := DecileSeries(pos, a.cfg.MinObs, a.cfg.MaxWindow)
	zbucket := DecileSeries(zs, a.cfg.MinObs, a.cfg.MaxWindow)

	out := make([]models.BucketAssignment, len(features))
	for i, f := range features {
		out[i] = models.BucketAssignment{
			Ticker:       f.Ticker,
			TradeDate:    f.TradeDate,
			RegimeBucket: regime[i],
			ZScoreBucket: zbucket[i],
		}
	}
	return features, out
}
