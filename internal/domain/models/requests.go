package models

// Requests for the advisory HTTP endpoints. Defined in domain for consistency and reuse.

type AdviceRequest struct {
	Symbol        string `query:"symbol" json:"symbol" validate:"required"`
	AssetClass    string `query:"asset_class" json:"asset_class" default:"auto" validate:"oneof=auto equity crypto"`
	Period        string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo ytd 1y 2y 5y"`
	RiskTolerance string `query:"risk_tolerance" json:"risk_tolerance" default:"moderate" validate:"oneof=low moderate high"`
}

type ConsensusRequest struct {
	Symbol        string `query:"symbol" json:"symbol" validate:"required"`
	RiskTolerance string `query:"risk_tolerance" json:"risk_tolerance" default:"moderate" validate:"oneof=low moderate high"`
}

type CompareRequest struct {
	Symbols    []string `json:"symbols" validate:"required,min=2,max=10,dive,required"`
	AssetClass string   `json:"asset_class" default:"auto" validate:"oneof=auto equity crypto"`
	Period     string   `json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo ytd 1y 2y 5y"`
}

type ScanRequest struct {
	Symbol     string   `query:"symbol" json:"symbol" validate:"required"`
	Timeframes []string `json:"timeframes" validate:"omitempty,max=4,dive,oneof=1d 4h 1h 15m"`
}
