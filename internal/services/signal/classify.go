package signal

import "MagIntel/internal/domain/models"

// BuildSignalRows zips aligned features and bucket assignments into fully
// classified signal rows. Inputs must be same-length and same-order per
// ticker; the bucket assigner guarantees that.
func BuildSignalRows(features []models.FeatureRow, buckets []models.BucketAssignment, s0 S0Policy, s1 S1Policy) []models.SignalRow {
	rows := make([]models.SignalRow, 0, len(features))
	for i, f := range features {
		b := buckets[i]

		coreState, coreScore := ClassifyS0(b, s0)
		momRevState, why := ClassifyS1(f, b.RegimeBucket, s1)

		rows = append(rows, models.SignalRow{
			Ticker:       f.Ticker,
			TradeDate:    f.TradeDate,
			AdjClose:     f.AdjClose,
			RegimeBucket: b.RegimeBucket,
			ZScoreBucket: b.ZScoreBucket,
			PricePos:     f.PricePos,
			ZScore:       f.ZScore,
			TrendMA:      f.TrendMA,
			Vol:          f.Vol,
			VolNotTop:    f.VolNotTop,
			CoreState:    coreState,
			CoreScore:    coreScore,
			MomRevState:  momRevState,
			SignalReason: why,
		})
	}
	return rows
}
