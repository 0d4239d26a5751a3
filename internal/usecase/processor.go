package usecase

import (
	"context"
	"time"

	"LiqWatch/internal/domain/models"
	drepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/store"
	applogger "LiqWatch/pkg/logger"
)

// EventProcessor applies one ingested event: append to the windowed
// store, fan out to the publisher, and write the symbol's record through
// to the mirror. Both ingestion paths (feed and relay) share one
// processor so they feed the same store.
type EventProcessor struct {
	store     *store.WindowedStore
	mirror    drepo.EventMirror
	publisher drepo.EventPublisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
}

func NewEventProcessor(
	st *store.WindowedStore,
	mirror drepo.EventMirror,
	publisher drepo.EventPublisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *EventProcessor {
	return &EventProcessor{store: st, mirror: mirror, publisher: publisher, metrics: metrics, logger: logger}
}

// Process ingests one event. The store append always succeeds; a mirror
// write failure is returned so the caller can schedule a retry of the
// symbol's flush. The event is never lost from the in-memory window.
func (p *EventProcessor) Process(ctx context.Context, source string, ev *models.LiquidationEvent) error {
	p.store.Append(*ev)
	p.metrics.RecordEventIngested(source, ev.Symbol)
	p.metrics.RecordLastPrice(ev.Symbol, ev.Price)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, ev); err != nil {
			// fan-out is best effort
			p.metrics.RecordError("publish")
			p.logger.Warn("event publish failed", applogger.String("symbol", ev.Symbol), applogger.Error(err))
		}
	}

	return p.Flush(ctx, ev.Symbol)
}

// Flush rewrites one symbol's persisted record from the current window.
// Idempotent: replaying a flush after a failure writes the same record.
func (p *EventProcessor) Flush(ctx context.Context, symbol string) error {
	snap := p.store.Snapshot(symbol, time.Now())
	if err := p.mirror.SaveWindow(ctx, symbol, snap); err != nil {
		p.metrics.RecordError("mirror_write")
		return err
	}
	return nil
}

// Close releases the processor's sinks.
func (p *EventProcessor) Close() {
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			p.logger.Warn("publisher close failed", applogger.Error(err))
		}
	}
}
