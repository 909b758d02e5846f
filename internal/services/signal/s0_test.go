package signal

import (
	"testing"
	"time"

	"MagIntel/internal/domain/models"
)

func assignment(regime, z int) models.BucketAssignment {
	return models.BucketAssignment{
		Ticker:       "AAPL",
		TradeDate:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		RegimeBucket: regime,
		ZScoreBucket: z,
	}
}

func TestClassifyS0States(t *testing.T) {
	p := DefaultS0Policy()

	cases := []struct {
		regime, z int
		want      models.S0State
	}{
		{1, 1, models.S0LongSetup},
		{3, 3, models.S0LongSetup},
		{3, 4, models.S0Neutral},
		{5, 5, models.S0Neutral},
		{8, 7, models.S0Neutral},
		{8, 8, models.S0Overextended},
		{10, 10, models.S0Overextended},
	}
	for _, c := range cases {
		got, score := ClassifyS0(assignment(c.regime, c.z), p)
		if got != c.want {
			t.Fatalf("buckets (%d,%d): expected %s, got %s", c.regime, c.z, c.want, got)
		}
		if score == nil {
			t.Fatalf("buckets (%d,%d): expected score", c.regime, c.z)
		}
	}
}

func TestClassifyS0Missing(t *testing.T) {
	p := DefaultS0Policy()

	for _, b := range []models.BucketAssignment{
		assignment(models.BucketNone, 5),
		assignment(5, models.BucketNone),
		assignment(models.BucketNone, models.BucketNone),
	} {
		state, score := ClassifyS0(b, p)
		if state != models.S0Missing {
			t.Fatalf("expected MISSING, got %s", state)
		}
		if score != nil {
			t.Fatalf("expected nil score on MISSING, got %f", *score)
		}
	}
}

func TestClassifyS0StatesExclusive(t *testing.T) {
	p := DefaultS0Policy()

	for regime := 1; regime <= 10; regime++ {
		for z := 1; z <= 10; z++ {
			state, _ := ClassifyS0(assignment(regime, z), p)
			long := state == models.S0LongSetup
			over := state == models.S0Overextended
			if long && over {
				t.Fatalf("buckets (%d,%d) classified both long and overextended", regime, z)
			}
			if state == models.S0Missing {
				t.Fatalf("buckets (%d,%d) must never be MISSING", regime, z)
			}
		}
	}
}

func TestClassifyS0ScoreInversion(t *testing.T) {
	p := DefaultS0Policy()

	_, cheap := ClassifyS0(assignment(1, 1), p)
	_, rich := ClassifyS0(assignment(10, 10), p)

	if *cheap != 10 {
		t.Fatalf("expected score 10 for cheapest buckets, got %f", *cheap)
	}
	if *rich != 1 {
		t.Fatalf("expected score 1 for richest buckets, got %f", *rich)
	}
}

func TestS0PolicyValidate(t *testing.T) {
	if err := DefaultS0Policy().Validate(); err != nil {
		t.Fatalf("default policy must validate: %v", err)
	}
	if err := (S0Policy{LongMax: 8, OverMin: 3}).Validate(); err == nil {
		t.Fatalf("expected error for overlapping thresholds")
	}
}
