// Package research aggregates backtest evidence over classified signal
// days: forward-return summaries, lagged sentiment correlation and
// demonstration equity curves. Everything in this package lives on the
// research lineage and may read forward-looking values.
package research

import (
	"time"

	"MagIntel/internal/domain/models"
)

// SplitLabels assigns EARLY or LATE to each date of one ticker's
// chronological series, split at the midpoint of the ticker's own date
// range. Dates strictly before the midpoint are EARLY. The split is per
// ticker, so tickers with different history lengths split at different
// calendar dates.
func SplitLabels(dates []time.Time) []models.PeriodLabel {
	out := make([]models.PeriodLabel, len(dates))
	if len(dates) == 0 {
		return out
	}
	first, last := dates[0], dates[len(dates)-1]
	mid := first.Add(last.Sub(first) / 2)
	for i, d := range dates {
		if d.Before(mid) {
			out[i] = models.PeriodEarly
		} else {
			out[i] = models.PeriodLate
		}
	}
	return out
}

// inPeriod reports whether a row's label matches the requested period.
// FULL matches everything.
func inPeriod(label, want models.PeriodLabel) bool {
	return want == models.PeriodFull || label == want
}
