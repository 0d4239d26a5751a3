package models

// SymbolStatsRequest is the request for per-symbol liquidation stats.
type SymbolStatsRequest struct {
	Symbol string `param:"symbol" validate:"required,min=1,max=32"`
}
