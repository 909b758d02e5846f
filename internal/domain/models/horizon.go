package models

// Horizon is a forward-return window length in trading days.
type Horizon int

const (
	Horizon5  Horizon = 5
	Horizon10 Horizon = 10
	Horizon20 Horizon = 20
)

// Horizons returns all supported forward-return horizons.
func Horizons() []Horizon { return []Horizon{Horizon5, Horizon10, Horizon20} }

// IsValidHorizon returns true if h is a supported horizon.
func IsValidHorizon(h Horizon) bool {
	switch h {
	case Horizon5, Horizon10, Horizon20:
		return true
	default:
		return false
	}
}

// DefaultHorizon returns the default forward-return horizon.
func DefaultHorizon() Horizon { return Horizon20 }

// NormalizeHorizon converts a raw int to a valid horizon (or default).
func NormalizeHorizon(n int) Horizon {
	h := Horizon(n)
	if IsValidHorizon(h) {
		return h
	}
	return DefaultHorizon()
}
