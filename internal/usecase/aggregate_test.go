package usecase

import (
	"math"
	"testing"

	"LiqWatch/internal/domain/models"
)

func TestAggregate(t *testing.T) {
	events := []models.LiquidationEvent{
		{Symbol: "X", Side: models.SideSell, Price: 100, Quantity: 2, Value: 200, EventTime: 1000},
		{Symbol: "X", Side: models.SideBuy, Price: 50, Quantity: 1, Value: 50, EventTime: 2000},
	}
	st := Aggregate(events)

	if st.LongCount != 1 || st.ShortCount != 1 {
		t.Fatalf("counts long=%d short=%d", st.LongCount, st.ShortCount)
	}
	if st.TotalValue != 250 {
		t.Fatalf("totalValue %v", st.TotalValue)
	}
	if st.LastPrice != 50 || st.LastUpdateTime != 2000 {
		t.Fatalf("latest lastPrice=%v lastUpdateTime=%v", st.LastPrice, st.LastUpdateTime)
	}
	if st.MaxValue != 200 || st.MaxValueSide != models.SideSell {
		t.Fatalf("max maxValue=%v side=%q", st.MaxValue, st.MaxValueSide)
	}
	if st.AvgPrice != 75 {
		t.Fatalf("avgPrice %v", st.AvgPrice)
	}
	wantAmp := (50.0 - 75.0) / 75.0 * 100.0
	if math.Abs(st.Amplitude-wantAmp) > 1e-9 {
		t.Fatalf("amplitude %v, want %v", st.Amplitude, wantAmp)
	}
}

func TestAggregateEmpty(t *testing.T) {
	st := Aggregate(nil)
	if st.LongCount != 0 || st.ShortCount != 0 || st.TotalValue != 0 ||
		st.LastPrice != 0 || st.AvgPrice != 0 || st.Amplitude != 0 ||
		st.MaxValue != 0 || st.LastUpdateTime != 0 {
		t.Fatalf("expected zero stats, got %+v", st)
	}
	if st.MaxValueSide != "" {
		t.Fatalf("expected empty maxValueSide, got %q", st.MaxValueSide)
	}
}

func TestAggregateTiesKeepFirst(t *testing.T) {
	events := []models.LiquidationEvent{
		{Side: models.SideSell, Price: 10, Value: 100, EventTime: 5000},
		{Side: models.SideBuy, Price: 20, Value: 100, EventTime: 5000},
	}
	st := Aggregate(events)
	if st.MaxValueSide != models.SideSell {
		t.Fatalf("max tie should keep first, got %q", st.MaxValueSide)
	}
	if st.LastPrice != 10 {
		t.Fatalf("latest tie should keep first, got %v", st.LastPrice)
	}
}

func TestAggregateAvgPricePrefersAp(t *testing.T) {
	ap := 30.0
	events := []models.LiquidationEvent{
		{Side: models.SideSell, Price: 10, AvgPrice: &ap, Value: 1, EventTime: 1},
		{Side: models.SideSell, Price: 20, Value: 1, EventTime: 2},
	}
	st := Aggregate(events)
	if st.AvgPrice != 25 { // (30 + 20) / 2
		t.Fatalf("avgPrice %v, want 25", st.AvgPrice)
	}
}
