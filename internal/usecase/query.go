package usecase

import (
	"context"
	"time"

	"LiqWatch/internal/domain/models"
	drepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/store"
)

// QueryService is the read-only surface consumed by the HTTP layer. Every
// query first checks that the external store is reachable: when it is
// down the caller gets ErrStorageUnavailable, never silently empty data.
type QueryService struct {
	store    *store.WindowedStore
	registry *store.ActiveSymbolRegistry
	mirror   drepo.EventMirror
	now      func() time.Time
}

func NewQueryService(st *store.WindowedStore, registry *store.ActiveSymbolRegistry, mirror drepo.EventMirror) *QueryService {
	return &QueryService{store: st, registry: registry, mirror: mirror, now: time.Now}
}

// ListActiveSymbols returns the symbols with at least one retained event.
func (q *QueryService) ListActiveSymbols(ctx context.Context) ([]string, error) {
	if err := q.mirror.Health(ctx); err != nil {
		return nil, err
	}
	return q.registry.List(), nil
}

// SymbolStats returns one symbol's snapshot with its aggregates.
//
// ErrNotFound means the store never held data for the symbol. A symbol
// whose window merely emptied (or was just swept, before the registry
// reconciled it out) still answers with zero-valued stats.
func (q *QueryService) SymbolStats(ctx context.Context, symbol string) (*models.SymbolReport, error) {
	if err := q.mirror.Health(ctx); err != nil {
		return nil, err
	}
	snap := q.store.Snapshot(symbol, q.now())
	if len(snap) == 0 && !q.store.Has(symbol) && !q.registry.Has(symbol) {
		return nil, drepo.ErrNotFound
	}
	return Report(snap), nil
}

// AllStats returns a report per currently-active symbol.
func (q *QueryService) AllStats(ctx context.Context) (map[string]*models.SymbolReport, error) {
	if err := q.mirror.Health(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]*models.SymbolReport)
	for symbol, events := range q.store.SnapshotAll(q.now()) {
		out[symbol] = Report(events)
	}
	return out, nil
}
