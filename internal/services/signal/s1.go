package signal

import (
	"fmt"

	"MagIntel/internal/domain/models"
)

// S1Policy holds the regime-bucket bands of the momentum / mean-reversion
// system. Momentum requires an uptrend inside the upper band, reversion a
// downtrend inside the lower band; both require volatility outside its own
// top quantile.
type S1Policy struct {
	MomBucketMin int `yaml:"mom_bucket_min"`
	MomBucketMax int `yaml:"mom_bucket_max"`
	RevBucketMin int `yaml:"rev_bucket_min"`
	RevBucketMax int `yaml:"rev_bucket_max"`
}

// DefaultS1Policy returns the canonical bands: momentum in buckets 6..9,
// reversion in buckets 2..5.
func DefaultS1Policy() S1Policy {
	return S1Policy{MomBucketMin: 6, MomBucketMax: 9, RevBucketMin: 2, RevBucketMax: 5}
}

// Validate rejects bands that are empty or overlapping.
func (p S1Policy) Validate() error {
	if p.MomBucketMin > p.MomBucketMax || p.RevBucketMin > p.RevBucketMax {
		return fmt.Errorf("s1 policy band empty: mom=[%d,%d] rev=[%d,%d]",
			p.MomBucketMin, p.MomBucketMax, p.RevBucketMin, p.RevBucketMax)
	}
	if p.RevBucketMax >= p.MomBucketMin {
		return fmt.Errorf("s1 policy bands overlap: rev_max=%d mom_min=%d", p.RevBucketMax, p.MomBucketMin)
	}
	return nil
}

const reasonMissing = "insufficient history"

// ClassifyS1 maps one day's regime bucket, trend and volatility context to
// an S1 state plus a human-readable reason. Any missing input makes the day
// MISSING; the state never depends on forward-looking data.
func ClassifyS1(f models.FeatureRow, regimeBucket int, p S1Policy) (models.S1State, string) {
	if regimeBucket == models.BucketNone || f.TrendMA == nil || f.VolNotTop == nil {
		return models.S1Missing, reasonMissing
	}

	trendUp := f.AdjClose > *f.TrendMA
	volOK := *f.VolNotTop
	reason := describe(trendUp, regimeBucket, volOK)

	if !volOK {
		return models.S1Neutral, reason
	}
	if trendUp && regimeBucket >= p.MomBucketMin && regimeBucket <= p.MomBucketMax {
		return models.S1Momentum, reason
	}
	if !trendUp && regimeBucket >= p.RevBucketMin && regimeBucket <= p.RevBucketMax {
		return models.S1Reversion, reason
	}
	return models.S1Neutral, reason
}

func describe(trendUp bool, bucket int, volOK bool) string {
	dir := "down"
	if trendUp {
		dir = "up"
	}
	vol := "elevated"
	if volOK {
		vol = "ok"
	}
	return fmt.Sprintf("trend=%s bucket=%d vol=%s", dir, bucket, vol)
}
