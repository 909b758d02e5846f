package bucket

import (
	"testing"
	"time"

	"MagIntel/internal/domain/models"
)

func pricePoints(ticker string, closes ...float64) []models.PricePoint {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{
			Ticker:    ticker,
			TradeDate: start.AddDate(0, 0, i),
			AdjClose:  c,
		}
	}
	return out
}

func testFeatureConfig() FeatureConfig {
	return FeatureConfig{
		CorridorWindow: 5,
		ZScoreWindow:   3,
		TrendWindow:    4,
		VolWindow:      3,
		VolRankWindow:  10,
		VolCapQuantile: 0.80,
	}
}

func TestComputeFeaturesCorridorPosition(t *testing.T) {
	points := pricePoints("AAPL", 100, 102, 104, 106, 108, 110)
	rows := ComputeFeatures(points, testFeatureConfig())

	if rows[0].PricePos != nil {
		t.Fatalf("expected nil corridor pos on first day, got %v", *rows[0].PricePos)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PricePos == nil {
			t.Fatalf("expected corridor pos at %d", i)
		}
		if *rows[i].PricePos != 1.0 {
			t.Fatalf("rising close must sit at corridor top, got %f at %d", *rows[i].PricePos, i)
		}
	}
}

func TestComputeFeaturesZScoreDegenerate(t *testing.T) {
	points := pricePoints("AAPL", 50, 50, 50, 50, 50)
	rows := ComputeFeatures(points, testFeatureConfig())

	for i, r := range rows {
		if r.ZScore != nil {
			t.Fatalf("expected nil z-score on flat series at %d, got %f", i, *r.ZScore)
		}
	}
}

func TestComputeFeaturesZScoreSign(t *testing.T) {
	points := pricePoints("AAPL", 100, 101, 102, 103, 104, 105)
	rows := ComputeFeatures(points, testFeatureConfig())

	last := rows[len(rows)-1]
	if last.ZScore == nil {
		t.Fatalf("expected z-score once window filled")
	}
	if *last.ZScore <= 0 {
		t.Fatalf("expected positive z-score on rising series, got %f", *last.ZScore)
	}
}

func TestComputeFeaturesTrendMA(t *testing.T) {
	points := pricePoints("AAPL", 10, 20, 30, 40, 50)
	rows := ComputeFeatures(points, testFeatureConfig())

	if rows[2].TrendMA != nil {
		t.Fatalf("expected nil trend MA before window fills")
	}
	if rows[3].TrendMA == nil || *rows[3].TrendMA != 25 {
		t.Fatalf("expected trend MA 25, got %v", rows[3].TrendMA)
	}
	if rows[4].TrendMA == nil || *rows[4].TrendMA != 35 {
		t.Fatalf("expected trend MA 35, got %v", rows[4].TrendMA)
	}
}

func TestComputeFeaturesVolWarmUp(t *testing.T) {
	points := pricePoints("AAPL", 100, 101, 99, 103, 102, 104)
	rows := ComputeFeatures(points, testFeatureConfig())

	for i := 0; i < 3; i++ {
		if rows[i].Vol != nil {
			t.Fatalf("expected nil vol before return window fills, got value at %d", i)
		}
	}
	for i := 3; i < len(rows); i++ {
		if rows[i].Vol == nil {
			t.Fatalf("expected vol at %d", i)
		}
		if *rows[i].Vol < 0 {
			t.Fatalf("vol must be non-negative, got %f", *rows[i].Vol)
		}
	}
}

func TestComputeFeaturesVolFlagNeedsHistory(t *testing.T) {
	points := pricePoints("AAPL", 100, 101, 99, 103, 102, 104, 105, 103)
	rows := ComputeFeatures(points, testFeatureConfig())

	for i, r := range rows {
		if r.VolNotTop != nil {
			t.Fatalf("expected nil vol flag on short history at %d", i)
		}
	}
}
