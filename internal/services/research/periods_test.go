package research

import (
	"testing"
	"time"

	"MagIntel/internal/domain/models"
)

func dateRange(n int) []time.Time {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestSplitLabelsMidpoint(t *testing.T) {
	dates := dateRange(10)
	labels := SplitLabels(dates)

	for i := 0; i < 4; i++ {
		if labels[i] != models.PeriodEarly {
			t.Fatalf("expected EARLY at %d, got %s", i, labels[i])
		}
	}
	for i := 5; i < 10; i++ {
		if labels[i] != models.PeriodLate {
			t.Fatalf("expected LATE at %d, got %s", i, labels[i])
		}
	}
}

func TestSplitLabelsEveryDayLabeled(t *testing.T) {
	labels := SplitLabels(dateRange(251))
	early, late := 0, 0
	for i, l := range labels {
		switch l {
		case models.PeriodEarly:
			early++
		case models.PeriodLate:
			late++
		default:
			t.Fatalf("unlabeled day at %d", i)
		}
	}
	if early == 0 || late == 0 {
		t.Fatalf("expected both halves populated, got early=%d late=%d", early, late)
	}
}

func TestSplitLabelsEmpty(t *testing.T) {
	if got := SplitLabels(nil); len(got) != 0 {
		t.Fatalf("expected empty labels, got %d", len(got))
	}
}
