// Package signal classifies bucketed days into the two signal systems and
// detects entry transitions. Classification is a pure function of same-day
// features and buckets.
package signal

import (
	"fmt"

	"MagIntel/internal/domain/models"
)

// S0Policy holds the bucket thresholds of the core value system.
type S0Policy struct {
	// LongMax is the highest bucket still considered cheap.
	LongMax int `yaml:"long_max"`
	// OverMin is the lowest bucket considered overextended.
	OverMin int `yaml:"over_min"`
}

// DefaultS0Policy returns the canonical thresholds: buckets 1..3 cheap,
// buckets 8..10 overextended.
func DefaultS0Policy() S0Policy {
	return S0Policy{LongMax: 3, OverMin: 8}
}

// Validate rejects threshold pairs whose state regions overlap.
func (p S0Policy) Validate() error {
	if p.LongMax < 1 || p.OverMin > 10 || p.LongMax >= p.OverMin {
		return fmt.Errorf("s0 policy thresholds out of range: long_max=%d over_min=%d", p.LongMax, p.OverMin)
	}
	return nil
}

// ClassifyS0 maps one day's bucket assignment to a core state and score.
// Days without both buckets are MISSING with a nil score. The score is the
// mean of the two inverted buckets on a 1..10 scale, higher meaning cheaper.
func ClassifyS0(b models.BucketAssignment, p S0Policy) (models.S0State, *float64) {
	if !b.HasBuckets() {
		return models.S0Missing, nil
	}
	score := (float64(11-b.RegimeBucket) + float64(11-b.ZScoreBucket)) / 2
	switch {
	case b.RegimeBucket <= p.LongMax && b.ZScoreBucket <= p.LongMax:
		return models.S0LongSetup, &score
	case b.RegimeBucket >= p.OverMin && b.ZScoreBucket >= p.OverMin:
		return models.S0Overextended, &score
	default:
		return models.S0Neutral, &score
	}
}
