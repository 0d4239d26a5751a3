package store

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"LiqWatch/internal/domain/models"
)

const testWindow = 15 * time.Minute

func newTestStore() (*WindowedStore, *ActiveSymbolRegistry) {
	reg := NewActiveSymbolRegistry()
	return NewWindowedStore(testWindow, reg), reg
}

func evAt(symbol string, t int64) models.LiquidationEvent {
	return models.LiquidationEvent{Symbol: symbol, Side: models.SideSell, Price: 1, Quantity: 1, Value: 1, EventTime: t}
}

func TestSnapshotFiltersByEventTime(t *testing.T) {
	s, _ := newTestStore()
	now := time.UnixMilli(100 * 60 * 1000)
	cutoff := now.UnixMilli() - testWindow.Milliseconds()

	// arrival order deliberately not time-sorted
	times := []int64{cutoff + 1, cutoff - 1, now.UnixMilli(), cutoff, cutoff + 500}
	for _, ts := range times {
		s.Append(evAt("BTCUSDT", ts))
	}

	snap := s.Snapshot("BTCUSDT", now)
	var want []int64
	for _, ts := range times {
		if ts > cutoff {
			want = append(want, ts)
		}
	}
	var got []int64
	for _, ev := range snap {
		got = append(got, ev.EventTime)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot times %v, want %v", got, want)
	}
}

func TestSnapshotUnknownSymbol(t *testing.T) {
	s, _ := newTestStore()
	if snap := s.Snapshot("NOPE", time.Now()); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore()
	now := time.Now()
	s.Append(evAt("BTCUSDT", now.UnixMilli()))
	snap := s.Snapshot("BTCUSDT", now)
	snap[0].Price = 999
	again := s.Snapshot("BTCUSDT", now)
	if again[0].Price == 999 {
		t.Fatalf("snapshot aliases store memory")
	}
}

func TestSweepIdempotent(t *testing.T) {
	s, _ := newTestStore()
	now := time.UnixMilli(100 * 60 * 1000)
	cutoff := now.UnixMilli() - testWindow.Milliseconds()

	s.Append(evAt("BTCUSDT", cutoff - 10))
	s.Append(evAt("BTCUSDT", cutoff + 10))
	s.Append(evAt("ETHUSDT", cutoff - 10)) // window will empty out

	first := s.SweepExpired(now)
	sort.Strings(first)
	second := s.SweepExpired(now)
	sort.Strings(second)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("sweep not idempotent: %v then %v", first, second)
	}
	if !reflect.DeepEqual(first, []string{"BTCUSDT"}) {
		t.Fatalf("unexpected survivors %v", first)
	}
	if s.Has("ETHUSDT") {
		t.Fatalf("emptied window should be destroyed")
	}
	if got := s.Snapshot("BTCUSDT", now); len(got) != 1 || got[0].EventTime != cutoff+10 {
		t.Fatalf("unexpected surviving events %v", got)
	}
}

func TestRegistryConsistencyAfterReconcile(t *testing.T) {
	s, reg := newTestStore()
	now := time.UnixMilli(100 * 60 * 1000)
	cutoff := now.UnixMilli() - testWindow.Milliseconds()

	s.Append(evAt("AAA", cutoff+1))
	s.Append(evAt("BBB", cutoff-1))
	s.Append(evAt("CCC", cutoff+1))

	reg.Reconcile(s.SweepExpired(now))

	want := []string{"AAA", "CCC"}
	if got := reg.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("registry %v, want %v", got, want)
	}
	for _, sym := range reg.List() {
		if len(s.Snapshot(sym, now)) == 0 {
			t.Fatalf("registry lists %s but its window is empty", sym)
		}
	}
}

func TestNotFoundVersusEmptiedWindow(t *testing.T) {
	s, reg := newTestStore()
	now := time.UnixMilli(100 * 60 * 1000)
	cutoff := now.UnixMilli() - testWindow.Milliseconds()

	// never ingested: neither store nor registry knows it
	if s.Has("NEVER") || reg.Has("NEVER") {
		t.Fatalf("unknown symbol should be absent everywhere")
	}

	// ingested then fully expired: after the sweep the window is gone but
	// the registry still lists it until reconciled
	s.Append(evAt("GONE", cutoff-1))
	s.SweepExpired(now)
	if s.Has("GONE") {
		t.Fatalf("swept-empty window should be deleted")
	}
	if !reg.Has("GONE") {
		t.Fatalf("registry should still list swept symbol before reconcile")
	}

	reg.Reconcile(s.Symbols())
	if reg.Has("GONE") {
		t.Fatalf("reconcile should drop swept symbol")
	}
}

func TestRestoreDropsExpired(t *testing.T) {
	s, reg := newTestStore()
	now := time.UnixMilli(100 * 60 * 1000)
	cutoff := now.UnixMilli() - testWindow.Milliseconds()

	s.Restore("BTCUSDT", []models.LiquidationEvent{evAt("BTCUSDT", cutoff - 1), evAt("BTCUSDT", cutoff + 1)}, now)
	s.Restore("DEAD", []models.LiquidationEvent{evAt("DEAD", cutoff - 1)}, now)

	if got := s.Snapshot("BTCUSDT", now); len(got) != 1 {
		t.Fatalf("expected one restored event, got %v", got)
	}
	if s.Has("DEAD") || reg.Has("DEAD") {
		t.Fatalf("fully expired restore should leave no trace")
	}
}

func TestConcurrentAppendSnapshot(t *testing.T) {
	s, reg := newTestStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sym := fmt.Sprintf("SYM%d", n%4)
			for j := 0; j < 200; j++ {
				s.Append(evAt(sym, now.UnixMilli()))
				_ = s.Snapshot(sym, now)
				if j%50 == 0 {
					reg.Reconcile(s.SweepExpired(now))
				}
			}
		}(i)
	}
	wg.Wait()

	for _, sym := range []string{"SYM0", "SYM1", "SYM2", "SYM3"} {
		if len(s.Snapshot(sym, now)) == 0 {
			t.Fatalf("lost events for %s", sym)
		}
	}
}
