package research

import (
	"fmt"

	"MagIntel/internal/domain/models"
)

// Simulate compounds per-day forward-return steps into a demonstration
// equity curve. Days with a nil forward return (or days the mode leaves
// flat) contribute a neutral 1.0 step, so the curve length always equals
// the input length.
//
// Modes:
//
//	all_days               compound every day's forward return
//	state_gated_overlap    compound only days in targetState
//	state_gated_no_overlap as gated, but after opening a position the next
//	                       horizon days are blocked (cooldown), so
//	                       overlapping forward windows never double count
//
// The curve is an illustration of signal quality, not a tradable backtest:
// it ignores costs, slippage and position sizing.
func Simulate(rows []models.ResearchRow, mode models.CurveMode, targetState string, h models.Horizon) ([]models.CurvePoint, error) {
	if !models.IsValidCurveMode(mode) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCurveMode, mode)
	}

	out := make([]models.CurvePoint, 0, len(rows))
	equity := 1.0
	cooldown := 0

	for _, row := range rows {
		fwd := row.FwdReturns[h]

		step := 1.0
		isTrade := false

		switch mode {
		case models.CurveAllDays:
			if fwd != nil {
				step = 1 + *fwd
				isTrade = true
			}
		case models.CurveStateGated:
			if row.State == targetState && fwd != nil {
				step = 1 + *fwd
				isTrade = true
			}
		case models.CurveStateGatedNoOverlap:
			if cooldown > 0 {
				cooldown--
			} else if row.State == targetState && fwd != nil {
				step = 1 + *fwd
				isTrade = true
				cooldown = int(h)
			}
		}

		equity *= step
		out = append(out, models.CurvePoint{
			TradeDate: row.TradeDate,
			IsTrade:   isTrade,
			Step:      step,
			Equity:    equity,
		})
	}
	return out, nil
}
