package store

import (
	"sort"
	"sync"
)

// ActiveSymbolRegistry is the derived index of symbols with at least one
// retained event. It holds symbol names only, never event data.
type ActiveSymbolRegistry struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
}

func NewActiveSymbolRegistry() *ActiveSymbolRegistry {
	return &ActiveSymbolRegistry{symbols: make(map[string]struct{})}
}

// Activate idempotently marks a symbol active.
func (r *ActiveSymbolRegistry) Activate(symbol string) {
	r.mu.Lock()
	r.symbols[symbol] = struct{}{}
	r.mu.Unlock()
}

// Reconcile replaces the registry contents with exactly the given set.
// The map is swapped wholesale so readers never observe partial state.
func (r *ActiveSymbolRegistry) Reconcile(symbols []string) {
	next := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		next[s] = struct{}{}
	}
	r.mu.Lock()
	r.symbols = next
	r.mu.Unlock()
}

// List returns the active symbols, sorted for stable output.
func (r *ActiveSymbolRegistry) List() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (r *ActiveSymbolRegistry) Has(symbol string) bool {
	r.mu.RLock()
	_, ok := r.symbols[symbol]
	r.mu.RUnlock()
	return ok
}
