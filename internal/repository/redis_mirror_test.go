package repository

import (
	"context"
	"testing"

	"LiqWatch/internal/domain/models"
	"LiqWatch/pkg/cache"
)

func TestMirrorWindowRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryCache()
	m := NewRedisMirror(kv)

	ap := 99.5
	events := []models.LiquidationEvent{
		{Symbol: "BTCUSDT", Side: models.SideSell, Price: 100, Quantity: 2, AvgPrice: &ap, Value: 200, EventTime: 1000},
		{Symbol: "BTCUSDT", Side: models.SideBuy, Price: 50, Quantity: 1, Value: 50, EventTime: 2000},
	}
	if err := m.SaveWindow(ctx, "BTCUSDT", events); err != nil {
		t.Fatalf("save: %v", err)
	}

	// record must live under the exact contract key
	var raw string
	if err := kv.Get(ctx, "liquidation:BTCUSDT", &raw); err != nil {
		t.Fatalf("expected record at liquidation:BTCUSDT: %v", err)
	}

	got, err := m.LoadWindow(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Value != 200 || got[0].AvgPrice == nil || *got[0].AvgPrice != ap {
		t.Fatalf("first event mangled: %+v", got[0])
	}
	if got[1].AvgPrice != nil {
		t.Fatalf("absent avg price should stay absent")
	}

	if err := m.DeleteWindow(ctx, "BTCUSDT"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, err := m.LoadWindow(ctx, "BTCUSDT"); err != nil || got != nil {
		t.Fatalf("expected empty window after delete, got (%v, %v)", got, err)
	}
}

func TestMirrorActiveSymbols(t *testing.T) {
	ctx := context.Background()
	m := NewRedisMirror(cache.NewMemoryCache())

	if got, err := m.LoadActiveSymbols(ctx); err != nil || got != nil {
		t.Fatalf("expected no symbols, got (%v, %v)", got, err)
	}
	if err := m.SaveActiveSymbols(ctx, []string{"AAA", "BBB"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.LoadActiveSymbols(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != "AAA" || got[1] != "BBB" {
		t.Fatalf("unexpected symbols %v", got)
	}
}
