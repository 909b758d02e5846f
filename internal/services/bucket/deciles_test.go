package bucket

import "testing"

func fptr(v float64) *float64 { return &v }

func series(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		out[i] = fptr(vals[i])
	}
	return out
}

func TestDecileSnapshotRisingSeries(t *testing.T) {
	vals := make([]*float64, 20)
	for i := range vals {
		vals[i] = fptr(100 + float64(i)*50/19)
	}

	buckets := DecileSnapshot(vals, 10)

	if buckets[0] != 1 {
		t.Fatalf("expected lowest value in bucket 1, got %d", buckets[0])
	}
	if buckets[19] != 10 {
		t.Fatalf("expected highest value in bucket 10, got %d", buckets[19])
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] < buckets[i-1] {
			t.Fatalf("buckets not monotone at %d: %d < %d", i, buckets[i], buckets[i-1])
		}
	}
}

func TestDecileSnapshotBelowMinObs(t *testing.T) {
	buckets := DecileSnapshot(series(1, 2, 3), 10)
	for i, b := range buckets {
		if b != 0 {
			t.Fatalf("expected no bucket at %d, got %d", i, b)
		}
	}
}

func TestDecileSeriesWarmUp(t *testing.T) {
	vals := make([]*float64, 20)
	for i := range vals {
		vals[i] = fptr(float64(i + 1))
	}

	buckets := DecileSeries(vals, 10, 0)

	for i := 0; i < 9; i++ {
		if buckets[i] != 0 {
			t.Fatalf("expected warm-up day %d unbucketed, got %d", i, buckets[i])
		}
	}
	// Each later day is the running maximum of its own history.
	for i := 9; i < 20; i++ {
		if buckets[i] != 10 {
			t.Fatalf("expected running max in bucket 10 at %d, got %d", i, buckets[i])
		}
	}
}

func TestDecileSeriesRunningMinimum(t *testing.T) {
	vals := make([]*float64, 15)
	for i := range vals {
		vals[i] = fptr(float64(100 - i))
	}

	buckets := DecileSeries(vals, 5, 0)

	for i := 4; i < 15; i++ {
		if buckets[i] != 1 {
			t.Fatalf("expected running min in bucket 1 at %d, got %d", i, buckets[i])
		}
	}
}

func TestDecileSeriesCappedWindow(t *testing.T) {
	// Decreasing series with a capped window: once full, each day is still
	// the minimum of its trailing window.
	vals := make([]*float64, 30)
	for i := range vals {
		vals[i] = fptr(float64(1000 - i))
	}

	buckets := DecileSeries(vals, 5, 10)

	for i := 10; i < 30; i++ {
		if buckets[i] != 1 {
			t.Fatalf("expected window min in bucket 1 at %d, got %d", i, buckets[i])
		}
	}
}

func TestDecileSeriesSkipsNil(t *testing.T) {
	vals := []*float64{fptr(1), nil, fptr(2), nil, fptr(3), fptr(4)}

	buckets := DecileSeries(vals, 3, 0)

	if buckets[1] != 0 || buckets[3] != 0 {
		t.Fatalf("expected nil entries unbucketed, got %v", buckets)
	}
	if buckets[0] != 0 || buckets[2] != 0 {
		t.Fatalf("expected warm-up before 3 valid obs, got %v", buckets)
	}
	if buckets[4] == 0 || buckets[5] == 0 {
		t.Fatalf("expected buckets once 3 valid obs exist, got %v", buckets)
	}
}

func TestDecileTieBreakIsChronological(t *testing.T) {
	vals := make([]*float64, 10)
	for i := range vals {
		vals[i] = fptr(7.0)
	}

	buckets := DecileSnapshot(vals, 10)

	for i, b := range buckets {
		if b != i+1 {
			t.Fatalf("expected tie at %d resolved to bucket %d, got %d", i, i+1, b)
		}
	}
}
