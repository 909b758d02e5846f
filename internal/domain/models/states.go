package models

import "time"

// S0State is the production ("core value") signal state. It is a function of
// the two bucket assignments only and never of any forward-looking field.
type S0State string

const (
	S0LongSetup    S0State = "LONG_SETUP"
	S0Neutral      S0State = "NEUTRAL"
	S0Overextended S0State = "OVEREXTENDED"
	S0Missing      S0State = "MISSING"
)

// Tradable reports whether the state opens a position in the S0 system.
func (s S0State) Tradable() bool {
	return s == S0LongSetup || s == S0Overextended
}

// S1State is the momentum / mean-reversion signal state.
type S1State string

const (
	S1Momentum  S1State = "MOM"
	S1Reversion S1State = "REV"
	S1Neutral   S1State = "NEU"
	S1Missing   S1State = "MISSING"
)

// Tradable reports whether the state opens a position in the S1 system.
func (s S1State) Tradable() bool {
	return s == S1Momentum || s == S1Reversion
}

// SignalSystem names one of the two signal systems.
type SignalSystem string

const (
	SystemS0 SignalSystem = "s0"
	SystemS1 SignalSystem = "s1"
)

// IsValidSystem returns true for a supported signal system.
func IsValidSystem(s SignalSystem) bool { return s == SystemS0 || s == SystemS1 }

// SignalRow is one fully classified day for a ticker: features, buckets and
// both signal states. This is the production-lineage output; it carries no
// forward returns.
type SignalRow struct {
	Ticker    string
	TradeDate time.Time
	AdjClose  float64

	RegimeBucket int
	ZScoreBucket int

	PricePos  *float64
	ZScore    *float64
	TrendMA   *float64
	Vol       *float64
	VolNotTop *bool

	CoreState S0State
	// Mean of the two inverted buckets, 1..10; higher means cheaper.
	CoreScore *float64

	MomRevState  S1State
	SignalReason string
}

// StateFor returns the row's state in the given system as a plain string.
func (r SignalRow) StateFor(system SignalSystem) string {
	if system == SystemS1 {
		return string(r.MomRevState)
	}
	return string(r.CoreState)
}

// Entry marks the first day of a contiguous run in a tradable state.
type Entry struct {
	Ticker    string
	TradeDate time.Time
	System    SignalSystem
	State     string
}
