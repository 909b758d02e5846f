package models

// HTTP request shapes for the consumer-contract API. Defaults are applied by
// creasty/defaults and constraints enforced by go-playground/validator at the
// binding layer.

type SignalsRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	System string `query:"system" default:"s0" validate:"oneof=s0 s1"`
}

type EntriesRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	System string `query:"system" default:"s1" validate:"oneof=s0 s1"`
}

type EvidenceRequest struct {
	Tickers string `query:"tickers"`
	System  string `query:"system" default:"s1" validate:"oneof=s0 s1"`
	State   string `query:"state"`
	Horizon int    `query:"horizon" default:"20" validate:"oneof=5 10 20"`
	Period  string `query:"period" default:"FULL" validate:"oneof=FULL EARLY LATE"`
	Basis   string `query:"basis" default:"all_days" validate:"oneof=all_days entries_only"`
}

type SurfaceRequest struct {
	State   string `query:"state" default:"LONG_SETUP" validate:"oneof=LONG_SETUP NEUTRAL OVEREXTENDED"`
	Horizon int    `query:"horizon" default:"20" validate:"oneof=5 10 20"`
	Period  string `query:"period" default:"FULL" validate:"oneof=FULL EARLY LATE"`
}

type CorrelationRequest struct {
	Tickers string `query:"tickers"`
	Lag     int    `query:"lag" default:"0" validate:"gte=-10,lte=10"`
	Horizon int    `query:"horizon" default:"20" validate:"oneof=5 10 20"`
	Source  string `query:"source" default:"news"`
}

type CurveRequest struct {
	Ticker  string `query:"ticker" validate:"required"`
	System  string `query:"system" default:"s0" validate:"oneof=s0 s1"`
	State   string `query:"state" default:"LONG_SETUP"`
	Mode    string `query:"mode" default:"state_gated_no_overlap" validate:"oneof=all_days state_gated_overlap state_gated_no_overlap"`
	Horizon int    `query:"horizon" default:"20" validate:"oneof=5 10 20"`
	Period  string `query:"period" default:"FULL" validate:"oneof=FULL EARLY LATE"`
}
