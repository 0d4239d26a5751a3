package models

// Stats are the derived aggregates over one symbol's retained events.
type Stats struct {
	LongCount      int     `json:"longCount"`
	ShortCount     int     `json:"shortCount"`
	TotalValue     float64 `json:"totalValue"`
	LastPrice      float64 `json:"lastPrice"`
	AvgPrice       float64 `json:"avgPrice"`
	Amplitude      float64 `json:"amplitude"`
	MaxValue       float64 `json:"maxValue"`
	MaxValueSide   string  `json:"maxValueSide"`
	LastUpdateTime int64   `json:"lastUpdateTime"`
}

// SymbolReport is the per-symbol query response: the retained orders plus
// the stats computed over exactly that snapshot.
type SymbolReport struct {
	Orders []LiquidationEvent `json:"orders"`
	Stats
}

// WindowRecord is the persisted per-symbol record. The external store keeps
// one of these under "liquidation:<symbol>".
type WindowRecord struct {
	Orders []LiquidationEvent `json:"orders"`
}
