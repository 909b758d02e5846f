package research

import (
	"math"
	"testing"

	"MagIntel/internal/domain/models"
)

func ptrSeries(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		out[i] = fptr(vals[i])
	}
	return out
}

func TestLagSeriesShift(t *testing.T) {
	vals := ptrSeries(1, 2, 3)

	fwd := LagSeries(vals, 1)
	if fwd[0] != nil || *fwd[1] != 1 || *fwd[2] != 2 {
		t.Fatalf("unexpected positive lag result %v", fwd)
	}

	back := LagSeries(vals, -1)
	if *back[0] != 2 || *back[1] != 3 || back[2] != nil {
		t.Fatalf("unexpected negative lag result %v", back)
	}

	same := LagSeries(vals, 0)
	for i := range vals {
		if *same[i] != *vals[i] {
			t.Fatalf("lag 0 must be identity")
		}
	}
}

func TestCorrelatePerfectLead(t *testing.T) {
	// Sentiment leads the forward return by exactly one day.
	sent := ptrSeries(1, 2, 3, 1, 4, 2, 5, 3, 6, 2, 7, 4)
	fwd := make([]*float64, len(sent))
	for i := 1; i < len(sent); i++ {
		fwd[i] = sent[i-1]
	}

	row := NewCorrelationEngine().Correlate("AAPL", sent, fwd, 1)

	if row.NObs != 11 {
		t.Fatalf("expected 11 overlapping days, got %d", row.NObs)
	}
	if row.Correlation == nil || math.Abs(*row.Correlation-1.0) > 1e-9 {
		t.Fatalf("expected correlation 1, got %v", row.Correlation)
	}
}

func TestCorrelateBelowMinOverlap(t *testing.T) {
	sent := ptrSeries(1, 2, 3, 4, 5, 6, 7, 8, 9)
	fwd := ptrSeries(1, 2, 3, 4, 5, 6, 7, 8, 9)

	row := NewCorrelationEngine().Correlate("AAPL", sent, fwd, 0)

	if row.NObs != 9 {
		t.Fatalf("expected overlap 9, got %d", row.NObs)
	}
	if row.Correlation != nil {
		t.Fatalf("expected nil correlation below min overlap, got %f", *row.Correlation)
	}
}

func TestCorrelateDegenerateVariance(t *testing.T) {
	sent := make([]*float64, 15)
	fwd := make([]*float64, 15)
	for i := range sent {
		sent[i] = fptr(3.0)
		fwd[i] = fptr(float64(i))
	}

	row := NewCorrelationEngine().Correlate("AAPL", sent, fwd, 0)

	if row.NObs != 15 {
		t.Fatalf("expected overlap 15, got %d", row.NObs)
	}
	if row.Correlation != nil {
		t.Fatalf("expected nil correlation on constant series, got %f", *row.Correlation)
	}
}

func TestCorrelateLagReducesOverlap(t *testing.T) {
	sent := ptrSeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	fwd := ptrSeries(2, 1, 4, 3, 6, 5, 8, 7, 10, 9, 12, 11)

	zero := NewCorrelationEngine().Correlate("AAPL", sent, fwd, 0)
	lagged := NewCorrelationEngine().Correlate("AAPL", sent, fwd, 3)

	if zero.NObs != 12 || lagged.NObs != 9 {
		t.Fatalf("expected overlaps 12 and 9, got %d and %d", zero.NObs, lagged.NObs)
	}
}

func TestSentimentBucketsUseLaggedSeries(t *testing.T) {
	vals := make([]*float64, 20)
	for i := range vals {
		vals[i] = fptr(float64(i))
	}

	buckets := NewCorrelationEngine().SentimentBuckets(vals, 0)

	if buckets[0] != 1 || buckets[19] != 10 {
		t.Fatalf("expected full decile spread, got %d..%d", buckets[0], buckets[19])
	}

	laggedBuckets := NewCorrelationEngine().SentimentBuckets(vals, 2)
	if laggedBuckets[0] != 0 || laggedBuckets[1] != 0 {
		t.Fatalf("expected vacated lag positions unbucketed, got %v", laggedBuckets[:2])
	}
}

func TestBucketTablePoolsAndSuppresses(t *testing.T) {
	var obs []BucketObs
	for i := 0; i < 12; i++ {
		obs = append(obs, BucketObs{SentimentBucket: 1, Fwd: fptr(0.02)})
	}
	for i := 0; i < 5; i++ {
		obs = append(obs, BucketObs{SentimentBucket: 2, Fwd: fptr(0.05)})
	}
	obs = append(obs, BucketObs{SentimentBucket: models.BucketNone, Fwd: fptr(0.9)})

	table := NewCorrelationEngine().BucketTable(obs)

	if len(table) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(table))
	}
	if table[0].Bucket != 1 || table[0].NObs != 12 {
		t.Fatalf("unexpected first bucket %+v", table[0])
	}
	if table[0].Mean == nil || math.Abs(*table[0].Mean-0.02) > 1e-12 {
		t.Fatalf("unexpected bucket mean %+v", table[0].Mean)
	}
	if table[1].NObs != 5 || table[1].Mean != nil {
		t.Fatalf("expected suppressed small bucket, got %+v", table[1])
	}
}

func TestInteractionGrid(t *testing.T) {
	var obs []BucketObs
	for i := 0; i < 11; i++ {
		obs = append(obs, BucketObs{RegimeBucket: 2, SentimentBucket: 9, Fwd: fptr(0.01)})
	}
	for i := 0; i < 11; i++ {
		obs = append(obs, BucketObs{RegimeBucket: 8, SentimentBucket: 1, Fwd: fptr(-0.02)})
	}
	obs = append(obs, BucketObs{RegimeBucket: models.BucketNone, SentimentBucket: 5, Fwd: fptr(0.5)})

	grid := NewCorrelationEngine().Interaction(obs)

	if len(grid) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(grid))
	}
	if grid[0].RegimeBucket != 2 || grid[0].SentimentBucket != 9 || grid[0].NObs != 11 {
		t.Fatalf("unexpected first cell %+v", grid[0])
	}
	if grid[1].Mean == nil || math.Abs(*grid[1].Mean+0.02) > 1e-12 {
		t.Fatalf("unexpected second cell mean %+v", grid[1].Mean)
	}
}
