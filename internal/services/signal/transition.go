package signal

import "MagIntel/internal/domain/models"

// Run is a maximal block of consecutive days sharing one state.
type Run struct {
	Start int
	End   int // inclusive
	State string
}

// Runs segments a chronological state sequence into maximal runs.
func Runs(states []string) []Run {
	var out []Run
	for i, s := range states {
		if i > 0 && out[len(out)-1].State == s {
			out[len(out)-1].End = i
			continue
		}
		out = append(out, Run{Start: i, End: i, State: s})
	}
	return out
}

func tradable(system models.SignalSystem, state string) bool {
	if system == models.SystemS1 {
		return models.S1State(state).Tradable()
	}
	return models.S0State(state).Tradable()
}

// MarkEntries flags the first day of every tradable run. A day is an entry
// exactly when its state is tradable and differs from the previous day's
// state; the first day of the series counts as a state change.
func MarkEntries(system models.SignalSystem, states []string) []bool {
	out := make([]bool, len(states))
	for _, r := range Runs(states) {
		if tradable(system, r.State) {
			out[r.Start] = true
		}
	}
	return out
}

// Entries extracts the entry events of one ticker's classified rows for the
// given system, in chronological order.
func Entries(rows []models.SignalRow, system models.SignalSystem) []models.Entry {
	states := make([]string, len(rows))
	for i, r := range rows {
		states[i] = r.StateFor(system)
	}
	var out []models.Entry
	for i, isEntry := range MarkEntries(system, states) {
		if !isEntry {
			continue
		}
		out = append(out, models.Entry{
			Ticker:    rows[i].Ticker,
			TradeDate: rows[i].TradeDate,
			System:    system,
			State:     states[i],
		})
	}
	return out
}
