package bucket

import (
	"testing"

	"MagIntel/internal/domain/models"
)

func TestAssignerWarmUpAndOrder(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	points := pricePoints("MSFT", closes...)

	cfg := DefaultConfig()
	cfg.Features = testFeatureConfig()

	features, buckets := NewAssigner(cfg).Assign(points)

	if len(features) != len(points) || len(buckets) != len(points) {
		t.Fatalf("expected one row per input day")
	}
	for i := range buckets {
		if !buckets[i].TradeDate.Equal(points[i].TradeDate) {
			t.Fatalf("input order not preserved at %d", i)
		}
		if buckets[i].Ticker != "MSFT" {
			t.Fatalf("unexpected ticker %q", buckets[i].Ticker)
		}
	}

	// Corridor pos is constant 1.0 on a monotone rise, so the regime bucket
	// stays unassigned until MinObs valid observations exist.
	seen := 0
	for i := range buckets {
		if features[i].PricePos == nil {
			continue
		}
		seen++
		if seen < cfg.MinObs && buckets[i].RegimeBucket != models.BucketNone {
			t.Fatalf("expected warm-up at obs %d, got bucket %d", seen, buckets[i].RegimeBucket)
		}
		if seen >= cfg.MinObs && buckets[i].RegimeBucket == models.BucketNone {
			t.Fatalf("expected regime bucket at obs %d", seen)
		}
	}
}

func TestAssignerZeroValueConfigDefaults(t *testing.T) {
	a := NewAssigner(Config{})
	if a.cfg.MinObs != 10 {
		t.Fatalf("expected default MinObs 10, got %d", a.cfg.MinObs)
	}
	if a.cfg.Features.CorridorWindow != 200 {
		t.Fatalf("expected default corridor window, got %d", a.cfg.Features.CorridorWindow)
	}
}

func TestAssignerNoLookAhead(t *testing.T) {
	closes := []float64{
		100, 98, 101, 97, 103, 99, 104, 96, 105, 102,
		107, 95, 108, 101, 110, 94, 111, 103, 112, 100,
		113, 99, 114, 105, 115, 98, 116, 104, 117, 101,
	}
	points := pricePoints("NVDA", closes...)

	cfg := DefaultConfig()
	cfg.Features = testFeatureConfig()
	a := NewAssigner(cfg)

	_, full := a.Assign(points)
	_, prefix := a.Assign(points[:20])

	for i := 0; i < 20; i++ {
		if full[i].RegimeBucket != prefix[i].RegimeBucket {
			t.Fatalf("regime bucket at %d changed with future data: %d vs %d",
				i, prefix[i].RegimeBucket, full[i].RegimeBucket)
		}
		if full[i].ZScoreBucket != prefix[i].ZScoreBucket {
			t.Fatalf("z bucket at %d changed with future data: %d vs %d",
				i, prefix[i].ZScoreBucket, full[i].ZScoreBucket)
		}
	}
}
