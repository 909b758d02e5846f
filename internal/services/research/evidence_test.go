package research

import (
	"math"
	"testing"
	"time"

	"MagIntel/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func researchDays(ticker, state string, period models.PeriodLabel, h models.Horizon, returns ...float64) []models.ResearchRow {
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.ResearchRow, len(returns))
	for i, r := range returns {
		out[i] = models.ResearchRow{
			Ticker:      ticker,
			TradeDate:   start.AddDate(0, 0, i),
			State:       state,
			PeriodLabel: period,
			FwdReturns:  map[models.Horizon]*float64{h: fptr(r)},
		}
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func findEvidence(t *testing.T, rows []models.EvidenceRow, ticker string, period models.PeriodLabel) models.EvidenceRow {
	t.Helper()
	for _, r := range rows {
		if r.Ticker == ticker && r.PeriodLabel == period {
			return r
		}
	}
	t.Fatalf("no evidence row for %s/%s", ticker, period)
	return models.EvidenceRow{}
}

func TestAggregateSuppressesSmallGroups(t *testing.T) {
	h := models.Horizon20
	rows := append(
		researchDays("AAPL", "LONG_SETUP", models.PeriodEarly, h, repeat(0.01, 12)...),
		researchDays("AAPL", "LONG_SETUP", models.PeriodLate, h, repeat(0.02, 4)...)...,
	)

	out := NewAggregator().Aggregate(rows, models.BasisAllDays, []models.Horizon{h})

	early := findEvidence(t, out, "AAPL", models.PeriodEarly)
	if early.NObs != 12 || early.Mean == nil {
		t.Fatalf("expected early stats at n=12, got %+v", early)
	}
	if math.Abs(*early.Mean-0.01) > 1e-12 || *early.WinRate != 1.0 {
		t.Fatalf("unexpected early stats mean=%f win=%f", *early.Mean, *early.WinRate)
	}

	late := findEvidence(t, out, "AAPL", models.PeriodLate)
	if late.NObs != 4 {
		t.Fatalf("expected late n=4, got %d", late.NObs)
	}
	if late.Mean != nil || late.Median != nil || late.WinRate != nil {
		t.Fatalf("expected suppressed stats below min sample, got %+v", late)
	}

	full := findEvidence(t, out, "AAPL", models.PeriodFull)
	if full.NObs != 16 {
		t.Fatalf("expected full n=16, got %d", full.NObs)
	}
	wantMean := (0.01*12 + 0.02*4) / 16
	if math.Abs(*full.Mean-wantMean) > 1e-12 {
		t.Fatalf("expected full mean %f, got %f", wantMean, *full.Mean)
	}
}

func TestAggregateEntriesOnlyBasis(t *testing.T) {
	h := models.Horizon10
	rows := researchDays("MSFT", "MOM", models.PeriodEarly, h, repeat(0.01, 15)...)
	rows[0].IsEntry = true
	rows[7].IsEntry = true

	out := NewAggregator().Aggregate(rows, models.BasisEntriesOnly, []models.Horizon{h})

	full := findEvidence(t, out, "MSFT", models.PeriodFull)
	if full.NObs != 2 {
		t.Fatalf("expected 2 entry observations, got %d", full.NObs)
	}
	if full.Mean != nil {
		t.Fatalf("expected suppressed stats below min sample")
	}
}

func TestAggregateSkipsNilReturns(t *testing.T) {
	h := models.Horizon5
	rows := researchDays("NVDA", "REV", models.PeriodLate, h, repeat(0.03, 11)...)
	rows[10].FwdReturns[h] = nil

	out := NewAggregator().Aggregate(rows, models.BasisAllDays, []models.Horizon{h})

	full := findEvidence(t, out, "NVDA", models.PeriodFull)
	if full.NObs != 10 {
		t.Fatalf("expected nil return dropped, got n=%d", full.NObs)
	}
}

func TestAggregateMedianOddEven(t *testing.T) {
	a := NewAggregator()

	s, ok := a.summarize([]float64{5, 1, 3, 2, 4, 6, 8, 7, 9, 10, 11})
	if !ok || s.median != 6 {
		t.Fatalf("expected odd median 6, got %f", s.median)
	}

	s, ok = a.summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	if !ok || s.median != 5.5 {
		t.Fatalf("expected even median 5.5, got %f", s.median)
	}
}

func TestPoolWeightsByObservations(t *testing.T) {
	rows := []models.EvidenceRow{
		{Ticker: "AAPL", PeriodLabel: models.PeriodFull, NObs: 20, Mean: fptr(0.01), WinRate: fptr(0.5)},
		{Ticker: "MSFT", PeriodLabel: models.PeriodFull, NObs: 30, Mean: fptr(0.02), WinRate: fptr(0.6)},
		{Ticker: "NVDA", PeriodLabel: models.PeriodFull, NObs: 50, Mean: fptr(-0.01), WinRate: fptr(0.4)},
	}

	pooled := NewAggregator().Pool(rows)

	if len(pooled) != 1 {
		t.Fatalf("expected one pooled period, got %d", len(pooled))
	}
	p := pooled[0]
	if p.NObs != 100 {
		t.Fatalf("expected pooled n=100, got %d", p.NObs)
	}
	wantMean := (0.01*20 + 0.02*30 - 0.01*50) / 100
	if math.Abs(*p.Mean-wantMean) > 1e-12 {
		t.Fatalf("expected pooled mean %f, got %f", wantMean, *p.Mean)
	}
	wantWin := (0.5*20 + 0.6*30 + 0.4*50) / 100
	if math.Abs(*p.WinRate-wantWin) > 1e-12 {
		t.Fatalf("expected pooled win rate %f, got %f", wantWin, *p.WinRate)
	}
}

func TestPoolIgnoresSuppressedRows(t *testing.T) {
	rows := []models.EvidenceRow{
		{Ticker: "AAPL", PeriodLabel: models.PeriodEarly, NObs: 15, Mean: fptr(0.01), WinRate: fptr(0.5)},
		{Ticker: "MSFT", PeriodLabel: models.PeriodEarly, NObs: 4},
	}

	pooled := NewAggregator().Pool(rows)

	if len(pooled) != 1 || pooled[0].NObs != 15 {
		t.Fatalf("expected suppressed row excluded, got %+v", pooled)
	}
}

func TestSurfacePoolsAcrossTickers(t *testing.T) {
	h := models.Horizon20
	var rows []models.ResearchRow
	for _, ticker := range []string{"AAPL", "MSFT"} {
		days := researchDays(ticker, "LONG_SETUP", models.PeriodEarly, h, repeat(0.01, 6)...)
		for i := range days {
			days[i].RegimeBucket = 2
			days[i].ZScoreBucket = 3
		}
		rows = append(rows, days...)
	}
	// A day missing a bucket never reaches the surface.
	rows[0].ZScoreBucket = models.BucketNone

	cells := NewAggregator().Surface(rows, "LONG_SETUP", models.PeriodFull, h)

	if len(cells) != 1 {
		t.Fatalf("expected one surface cell, got %d", len(cells))
	}
	c := cells[0]
	if c.RegimeBucket != 2 || c.ZScoreBucket != 3 {
		t.Fatalf("unexpected cell coordinates %+v", c)
	}
	if c.NObs != 11 {
		t.Fatalf("expected 11 pooled observations, got %d", c.NObs)
	}
	if c.Mean == nil || math.Abs(*c.Mean-0.01) > 1e-12 {
		t.Fatalf("unexpected cell mean %+v", c.Mean)
	}
}
