package bucket

import (
	"sort"

	"MagIntel/internal/domain/models"
)

type obs struct {
	v   float64
	idx int
}

// rankObs sorts the window by value with ties broken by original index, so
// on exact ties the earliest observation gets the lower bucket. Returns the
// decile (1..10) of the observation with index targetIdx.
func rankObs(window []obs, targetIdx int) int {
	sort.SliceStable(window, func(i, j int) bool {
		if window[i].v != window[j].v {
			return window[i].v < window[j].v
		}
		return window[i].idx < window[j].idx
	})
	for pos, o := range window {
		if o.idx == targetIdx {
			return pos*10/len(window) + 1
		}
	}
	return models.BucketNone
}

// DecileSeries assigns a point-in-time decile to each day of a metric
// series: the bucket for day t uses only observations up to and including t.
// This is the production, no-look-ahead assignment.
//
// minObs is the warm-up threshold W: days with fewer valid observations
// available get BucketNone. maxWindow caps the trailing history considered
// (0 means fully expanding). Nil entries (metric unavailable) stay
// BucketNone and do not count as observations.
func DecileSeries(values []*float64, minObs, maxWindow int) []int {
	out := make([]int, len(values))
	var history []obs
	for t, v := range values {
		if v == nil {
			continue
		}
		history = append(history, obs{v: *v, idx: t})
		window := history
		if maxWindow > 0 && len(window) > maxWindow {
			window = window[len(window)-maxWindow:]
		}
		if len(window) < minObs {
			continue
		}
		w := make([]obs, len(window))
		copy(w, window)
		out[t] = rankObs(w, t)
	}
	return out
}

// DecileSnapshot ranks the whole series at once: every valid observation
// gets the decile of its position in the full distribution. Lowest value
// maps to bucket 1, highest to bucket 10, exact ties resolved by
// chronological order. Used on the research lineage only, where ranking
// against later observations is allowed.
func DecileSnapshot(values []*float64, minObs int) []int {
	out := make([]int, len(values))
	var all []obs
	for t, v := range values {
		if v != nil {
			all = append(all, obs{v: *v, idx: t})
		}
	}
	if len(all) < minObs {
		return out
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].v != all[j].v {
			return all[i].v < all[j].v
		}
		return all[i].idx < all[j].idx
	})
	for pos, o := range all {
		out[o.idx] = pos*10/len(all) + 1
	}
	return out
}
