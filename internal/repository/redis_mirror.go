package repository

import (
	"context"
	"errors"
	"fmt"

	"LiqWatch/internal/domain/models"
	"LiqWatch/internal/domain/repository"
	"LiqWatch/pkg/cache"
)

const (
	windowKeyPrefix  = "liquidation:"
	activeSymbolsKey = "active_symbols"
)

// RedisMirror persists the windowed store and registry to the external
// key-value store using the fixed record layout: one
// "liquidation:<symbol>" record per symbol holding {"orders":[...]}, and
// an "active_symbols" record holding the symbol list.
type RedisMirror struct {
	kv cache.Service
}

// NewRedisMirror creates the persisted-state mirror.
func NewRedisMirror(kv cache.Service) repository.EventMirror {
	return &RedisMirror{kv: kv}
}

// WindowKey returns the record key for a symbol.
func WindowKey(symbol string) string { return windowKeyPrefix + symbol }

func (m *RedisMirror) SaveWindow(ctx context.Context, symbol string, events []models.LiquidationEvent) error {
	if events == nil {
		events = []models.LiquidationEvent{}
	}
	rec := models.WindowRecord{Orders: events}
	if err := m.kv.Set(ctx, WindowKey(symbol), rec, 0); err != nil {
		return unavailable("save window "+symbol, err)
	}
	return nil
}

func (m *RedisMirror) DeleteWindow(ctx context.Context, symbol string) error {
	if err := m.kv.Delete(ctx, WindowKey(symbol)); err != nil {
		return unavailable("delete window "+symbol, err)
	}
	return nil
}

func (m *RedisMirror) LoadWindow(ctx context.Context, symbol string) ([]models.LiquidationEvent, error) {
	var rec models.WindowRecord
	if err := m.kv.Get(ctx, WindowKey(symbol), &rec); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, unavailable("load window "+symbol, err)
	}
	return rec.Orders, nil
}

// LoadWindows batch-loads several symbols' records. Missing or corrupt
// records are skipped.
func (m *RedisMirror) LoadWindows(ctx context.Context, symbols []string) (map[string][]models.LiquidationEvent, error) {
	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = WindowKey(s)
	}
	records, err := cache.MGetTyped[models.WindowRecord](ctx, m.kv, keys...)
	if err != nil {
		return nil, unavailable("load windows", err)
	}
	out := make(map[string][]models.LiquidationEvent, len(records))
	for key, rec := range records {
		out[key[len(windowKeyPrefix):]] = rec.Orders
	}
	return out, nil
}

func (m *RedisMirror) SaveActiveSymbols(ctx context.Context, symbols []string) error {
	if symbols == nil {
		symbols = []string{}
	}
	if err := m.kv.Set(ctx, activeSymbolsKey, symbols, 0); err != nil {
		return unavailable("save active symbols", err)
	}
	return nil
}

func (m *RedisMirror) LoadActiveSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := m.kv.Get(ctx, activeSymbolsKey, &symbols); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, unavailable("load active symbols", err)
	}
	return symbols, nil
}

func (m *RedisMirror) Health(ctx context.Context) error {
	if err := m.kv.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (m *RedisMirror) Close() error {
	return m.kv.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("mirror %s: %w: %v", op, repository.ErrStorageUnavailable, err)
}
