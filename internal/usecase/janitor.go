package usecase

import (
	"context"
	"time"

	drepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/store"
	applogger "LiqWatch/pkg/logger"
)

// Janitor periodically evicts expired events from every window, drops
// emptied symbols, reconciles the registry against the store, and
// rewrites the persisted records. The sweep bounds memory; correctness
// of reads never depends on it because snapshots filter at read time.
type Janitor struct {
	store    *store.WindowedStore
	registry *store.ActiveSymbolRegistry
	mirror   drepo.EventMirror
	metrics  drepo.Metrics
	logger   *applogger.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewJanitor(
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	mirror drepo.EventMirror,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	interval time.Duration,
) *Janitor {
	return &Janitor{
		store:    st,
		registry: registry,
		mirror:   mirror,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the periodic sweep.
func (j *Janitor) Start(ctx context.Context) {
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-j.stop:
				return
			case <-ticker.C:
				j.RunOnce(ctx, time.Now())
			}
		}
	}()
}

// RunOnce performs a single sweep. Reconciliation follows the sweep
// within the same run, so the registry never keeps a symbol the sweep
// just emptied across runs.
func (j *Janitor) RunOnce(ctx context.Context, now time.Time) {
	start := time.Now()

	before := j.store.Symbols()
	remaining := j.store.SweepExpired(now)
	j.registry.Reconcile(remaining)
	j.metrics.RecordActiveSymbols(len(remaining))

	kept := make(map[string]struct{}, len(remaining))
	for _, s := range remaining {
		kept[s] = struct{}{}
	}
	for _, s := range before {
		if _, ok := kept[s]; ok {
			continue
		}
		if err := j.mirror.DeleteWindow(ctx, s); err != nil {
			j.metrics.RecordError("sweep_mirror")
			j.logger.Warn("sweep: mirror delete failed", applogger.String("symbol", s), applogger.Error(err))
		}
	}
	for _, s := range remaining {
		if err := j.mirror.SaveWindow(ctx, s, j.store.Snapshot(s, now)); err != nil {
			j.metrics.RecordError("sweep_mirror")
			j.logger.Warn("sweep: mirror write failed", applogger.String("symbol", s), applogger.Error(err))
		}
	}
	if err := j.mirror.SaveActiveSymbols(ctx, j.registry.List()); err != nil {
		j.metrics.RecordError("sweep_mirror")
		j.logger.Warn("sweep: active symbols write failed", applogger.Error(err))
	}

	j.metrics.RecordLatency("sweep", time.Since(start).Seconds())
	j.logger.Debug("sweep complete",
		applogger.Int("symbols", len(remaining)),
		applogger.Int("dropped", len(before)-len(remaining)))
}

// Stop halts the periodic sweep and waits for the loop to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
