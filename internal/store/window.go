package store

import (
	"sync"
	"time"

	"LiqWatch/internal/domain/models"
)

// WindowedStore owns the per-symbol event windows. Events are kept in
// arrival order; expiry is judged against the feed-reported event time,
// not wall-clock receipt time.
//
// Snapshots filter at read time, so callers never observe an expired
// event even if the background sweep is delayed. The sweep exists only
// to bound memory.
type WindowedStore struct {
	mu       sync.RWMutex
	windows  map[string][]models.LiquidationEvent
	window   time.Duration
	registry *ActiveSymbolRegistry
}

func NewWindowedStore(window time.Duration, registry *ActiveSymbolRegistry) *WindowedStore {
	return &WindowedStore{
		windows:  make(map[string][]models.LiquidationEvent),
		window:   window,
		registry: registry,
	}
}

// Window returns the retention duration.
func (s *WindowedStore) Window() time.Duration { return s.window }

// Append inserts the event into its symbol's window, creating the window
// on first sight, and marks the symbol active.
func (s *WindowedStore) Append(ev models.LiquidationEvent) {
	s.mu.Lock()
	s.windows[ev.Symbol] = append(s.windows[ev.Symbol], ev)
	s.mu.Unlock()
	s.registry.Activate(ev.Symbol)
}

// Restore replaces a symbol's window wholesale, keeping only unexpired
// events. Used to re-hydrate from the external store at startup.
func (s *WindowedStore) Restore(symbol string, events []models.LiquidationEvent, now time.Time) {
	cutoff := now.UnixMilli() - s.window.Milliseconds()
	kept := make([]models.LiquidationEvent, 0, len(events))
	for _, ev := range events {
		if ev.EventTime > cutoff {
			kept = append(kept, ev)
		}
	}
	if len(kept) == 0 {
		return
	}
	s.mu.Lock()
	s.windows[symbol] = kept
	s.mu.Unlock()
	s.registry.Activate(symbol)
}

// Snapshot returns a freshly filtered copy of the symbol's window holding
// only events newer than now minus the retention window. An unknown
// symbol yields an empty slice, not an error.
func (s *WindowedStore) Snapshot(symbol string, now time.Time) []models.LiquidationEvent {
	cutoff := now.UnixMilli() - s.window.Milliseconds()
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.windows[symbol]
	out := make([]models.LiquidationEvent, 0, len(events))
	for _, ev := range events {
		if ev.EventTime > cutoff {
			out = append(out, ev)
		}
	}
	return out
}

// SnapshotAll applies the same read-time filter to every currently active
// symbol.
func (s *WindowedStore) SnapshotAll(now time.Time) map[string][]models.LiquidationEvent {
	out := make(map[string][]models.LiquidationEvent)
	for _, symbol := range s.registry.List() {
		out[symbol] = s.Snapshot(symbol, now)
	}
	return out
}

// Has reports whether the store holds a window for the symbol, regardless
// of whether any of its events are still inside the retention window.
func (s *WindowedStore) Has(symbol string) bool {
	s.mu.RLock()
	_, ok := s.windows[symbol]
	s.mu.RUnlock()
	return ok
}

// Symbols returns every symbol with a stored window.
func (s *WindowedStore) Symbols() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.windows))
	for symbol := range s.windows {
		out = append(out, symbol)
	}
	s.mu.RUnlock()
	return out
}

// SweepExpired evicts expired events from every window in place and
// deletes windows left empty. It is the only operation that shrinks
// storage. The surviving symbol set is returned so the caller can
// reconcile the registry and the external store against it.
func (s *WindowedStore) SweepExpired(now time.Time) []string {
	cutoff := now.UnixMilli() - s.window.Milliseconds()
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := make([]string, 0, len(s.windows))
	for symbol, events := range s.windows {
		kept := events[:0]
		for _, ev := range events {
			if ev.EventTime > cutoff {
				kept = append(kept, ev)
			}
		}
		if len(kept) == 0 {
			delete(s.windows, symbol)
			continue
		}
		s.windows[symbol] = kept
		remaining = append(remaining, symbol)
	}
	return remaining
}
