package usecase

import (
	"LiqWatch/internal/domain/models"
)

// Aggregate computes the derived statistics over a point-in-time snapshot.
// It is deterministic and side-effect free; an empty snapshot yields the
// zero defaults.
//
// Count naming follows the feed's convention: a SELL-side liquidation
// closes a long position, a BUY-side one closes a short.
func Aggregate(events []models.LiquidationEvent) models.Stats {
	var st models.Stats
	if len(events) == 0 {
		return st
	}

	maxIdx, latestIdx := 0, 0
	var priceSum float64
	for i := range events {
		ev := &events[i]
		switch ev.Side {
		case models.SideSell:
			st.LongCount++
		case models.SideBuy:
			st.ShortCount++
		}
		st.TotalValue += ev.Value
		// ties keep the first encountered
		if ev.Value > events[maxIdx].Value {
			maxIdx = i
		}
		if ev.EventTime > events[latestIdx].EventTime {
			latestIdx = i
		}
		if ev.AvgPrice != nil {
			priceSum += *ev.AvgPrice
		} else {
			priceSum += ev.Price
		}
	}

	st.MaxValue = events[maxIdx].Value
	st.MaxValueSide = events[maxIdx].Side
	st.LastPrice = events[latestIdx].Price
	st.LastUpdateTime = events[latestIdx].EventTime
	st.AvgPrice = priceSum / float64(len(events))
	if st.AvgPrice != 0 {
		st.Amplitude = (st.LastPrice - st.AvgPrice) / st.AvgPrice * 100
	}
	return st
}

// Report pairs a snapshot with its aggregates in the query response shape.
func Report(events []models.LiquidationEvent) *models.SymbolReport {
	return &models.SymbolReport{Orders: events, Stats: Aggregate(events)}
}
