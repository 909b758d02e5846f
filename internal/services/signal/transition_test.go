package signal

import (
	"testing"
	"time"

	"MagIntel/internal/domain/models"
)

func stateRows(system models.SignalSystem, states ...string) []models.SignalRow {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := make([]models.SignalRow, len(states))
	for i, s := range states {
		rows[i] = models.SignalRow{
			Ticker:    "TSLA",
			TradeDate: start.AddDate(0, 0, i),
		}
		if system == models.SystemS1 {
			rows[i].MomRevState = models.S1State(s)
		} else {
			rows[i].CoreState = models.S0State(s)
		}
	}
	return rows
}

func TestRunsSegmentsMaximalBlocks(t *testing.T) {
	runs := Runs([]string{"NEU", "NEU", "MOM", "MOM", "NEU", "MOM"})

	want := []Run{
		{Start: 0, End: 1, State: "NEU"},
		{Start: 2, End: 3, State: "MOM"},
		{Start: 4, End: 4, State: "NEU"},
		{Start: 5, End: 5, State: "MOM"},
	}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, r := range runs {
		if r != want[i] {
			t.Fatalf("run %d: expected %+v, got %+v", i, want[i], r)
		}
	}
}

func TestEntriesOnStateChangeOnly(t *testing.T) {
	rows := stateRows(models.SystemS1, "NEU", "NEU", "MOM", "MOM", "NEU", "MOM")

	entries := Entries(rows, models.SystemS1)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].TradeDate.Equal(rows[2].TradeDate) || entries[0].State != "MOM" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if !entries[1].TradeDate.Equal(rows[5].TradeDate) || entries[1].State != "MOM" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestEntriesFirstDayCountsAsChange(t *testing.T) {
	rows := stateRows(models.SystemS0, "LONG_SETUP", "LONG_SETUP", "NEUTRAL")

	entries := Entries(rows, models.SystemS0)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].TradeDate.Equal(rows[0].TradeDate) {
		t.Fatalf("expected entry on first day, got %v", entries[0].TradeDate)
	}
}

func TestEntriesIgnoreNonTradableRuns(t *testing.T) {
	rows := stateRows(models.SystemS1, "MISSING", "NEU", "NEU", "REV", "MISSING", "NEU")

	entries := Entries(rows, models.SystemS1)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].State != "REV" {
		t.Fatalf("expected REV entry, got %s", entries[0].State)
	}
}

func TestMarkEntriesAlignment(t *testing.T) {
	flags := MarkEntries(models.SystemS1, []string{"MOM", "MOM", "REV", "NEU", "REV"})

	want := []bool{true, false, true, false, true}
	for i := range want {
		if flags[i] != want[i] {
			t.Fatalf("flag %d: expected %v, got %v", i, want[i], flags[i])
		}
	}
}
