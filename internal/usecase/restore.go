package usecase

import (
	"context"
	"time"

	drepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/store"
	applogger "LiqWatch/pkg/logger"
)

// RestoreFromMirror re-hydrates the windowed store from the external
// store at startup, so a process restart keeps the current window.
// Events that expired while the process was down are dropped on the way
// in. A missing or unreachable mirror is not fatal: the service starts
// cold and the feed refills it.
func RestoreFromMirror(
	ctx context.Context,
	mirror drepo.EventMirror,
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	logger *applogger.Logger,
) error {
	symbols, err := mirror.LoadActiveSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	windows, err := mirror.LoadWindows(ctx, symbols)
	if err != nil {
		return err
	}

	now := time.Now()
	restored := 0
	for symbol, events := range windows {
		st.Restore(symbol, events, now)
		restored++
	}
	registry.Reconcile(st.Symbols())

	logger.Info("restored windows from mirror",
		applogger.Int("symbols", restored),
		applogger.Int("active", len(registry.List())))
	return nil
}
