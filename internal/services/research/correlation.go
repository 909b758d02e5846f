package research

import (
	"math"
	"sort"

	"MagIntel/internal/domain/models"
	"MagIntel/internal/services/bucket"
)

// MinOverlap is the minimum number of days on which both the lagged
// sentiment and the forward return exist before a correlation is reported.
const MinOverlap = 10

// CorrelationEngine relates lagged sentiment to forward returns.
type CorrelationEngine struct {
	minOverlap int
}

// NewCorrelationEngine returns an engine with the standard overlap floor.
func NewCorrelationEngine() *CorrelationEngine {
	return &CorrelationEngine{minOverlap: MinOverlap}
}

// LagSeries shifts a chronological series forward by lag days within one
// ticker: out[i] = values[i-lag]. A positive lag aligns earlier sentiment
// with later returns ("does sentiment lead price"); vacated positions are
// nil. A negative lag shifts the other way.
func LagSeries(values []*float64, lag int) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		src := i - lag
		if src < 0 || src >= len(values) {
			continue
		}
		out[i] = values[src]
	}
	return out
}

// pearson computes the correlation of two equal-length samples. ok is false
// when either side has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	den := math.Sqrt(varX * varY)
	if den == 0 {
		return 0, false
	}
	return cov / den, true
}

// Correlate computes one ticker's lagged sentiment / forward-return
// correlation. The sentiment and fwd slices must be aligned to the same
// chronological dates. Correlation is nil below the minimum overlap or when
// either series is constant over the overlap; NObs always reports the
// overlap size.
func (e *CorrelationEngine) Correlate(ticker string, sentiment, fwd []*float64, lag int) models.CorrelationRow {
	lagged := LagSeries(sentiment, lag)

	var xs, ys []float64
	for i := range lagged {
		if lagged[i] == nil || fwd[i] == nil {
			continue
		}
		xs = append(xs, *lagged[i])
		ys = append(ys, *fwd[i])
	}

	row := models.CorrelationRow{Ticker: ticker, Lag: lag, NObs: len(xs)}
	if len(xs) < e.minOverlap {
		return row
	}
	if corr, ok := pearson(xs, ys); ok {
		row.Correlation = &corr
	}
	return row
}

// BucketObs is one pooled observation for the sentiment decile table: the
// day's lagged sentiment decile and its forward return.
type BucketObs struct {
	SentimentBucket int
	RegimeBucket    int
	Fwd             *float64
}

// SentimentBuckets deciles one ticker's lagged sentiment series over its
// full history. Research lineage: full-distribution ranking is intended
// here.
func (e *CorrelationEngine) SentimentBuckets(sentiment []*float64, lag int) []int {
	return bucket.DecileSnapshot(LagSeries(sentiment, lag), e.minOverlap)
}

// BucketTable pools forward returns by lagged sentiment decile across
// tickers. Deciles are per ticker; the pooling is across all observations.
// Buckets below the minimum overlap get a nil mean.
func (e *CorrelationEngine) BucketTable(obs []BucketObs) []models.SentimentBucketRow {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, o := range obs {
		if o.SentimentBucket == models.BucketNone || o.Fwd == nil {
			continue
		}
		sums[o.SentimentBucket] += *o.Fwd
		counts[o.SentimentBucket]++
	}

	out := make([]models.SentimentBucketRow, 0, len(counts))
	for b, n := range counts {
		row := models.SentimentBucketRow{Bucket: b, NObs: n}
		if n >= e.minOverlap {
			mean := sums[b] / float64(n)
			row.Mean = &mean
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

// Interaction builds the regime bucket by sentiment bucket grid of mean
// forward returns, pooled across tickers. Cells below the minimum overlap
// get a nil mean.
func (e *CorrelationEngine) Interaction(obs []BucketObs) []models.InteractionCell {
	type key struct{ regime, sent int }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, o := range obs {
		if o.RegimeBucket == models.BucketNone || o.SentimentBucket == models.BucketNone || o.Fwd == nil {
			continue
		}
		k := key{regime: o.RegimeBucket, sent: o.SentimentBucket}
		sums[k] += *o.Fwd
		counts[k]++
	}

	out := make([]models.InteractionCell, 0, len(counts))
	for k, n := range counts {
		cell := models.InteractionCell{RegimeBucket: k.regime, SentimentBucket: k.sent, NObs: n}
		if n >= e.minOverlap {
			mean := sums[k] / float64(n)
			cell.Mean = &mean
		}
		out = append(out, cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegimeBucket != out[j].RegimeBucket {
			return out[i].RegimeBucket < out[j].RegimeBucket
		}
		return out[i].SentimentBucket < out[j].SentimentBucket
	})
	return out
}
