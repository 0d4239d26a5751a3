package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"LiqWatch/internal/domain/models"
	domrepo "LiqWatch/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, source string, ev *models.LiquidationEvent) error
	Flush(ctx context.Context, symbol string) error
}

// IngestPipeline sits between the ingestion paths and the processor. It
// validates events and keeps a retry buffer of symbols whose mirror
// flush failed, replaying them in the background with backoff. Events
// themselves are never buffered: the store append has already happened
// by the time a flush can fail, and a flush is an idempotent whole-record
// rewrite.
type IngestPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	bufSize int
	retryCh chan string
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*IngestPipeline)

// WithBufferSize sets the pending-flush buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:    proc,
		metrics: metrics,
		bufSize: 1000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.retryCh = make(chan string, p.bufSize)
	return p
}

// Start launches background replay of failed mirror flushes.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case symbol := <-p.retryCh:
				if symbol == "" {
					continue
				}
				if err := p.proc.Flush(ctx, symbol); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.retryCh <- symbol:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background replay.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and forwards an event, scheduling a flush retry when
// the mirror write fails.
func (p *IngestPipeline) Process(ctx context.Context, source string, ev *models.LiquidationEvent) error {
	start := time.Now()
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}

	if err := p.proc.Process(ctx, source, ev); err != nil {
		select {
		case p.retryCh <- ev.Symbol:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateEvent(ev *models.LiquidationEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if ev.EventTime <= 0 {
		return fmt.Errorf("event time invalid")
	}
	if ev.Price < 0 || ev.Quantity < 0 {
		return fmt.Errorf("negative price/quantity")
	}
	return nil
}
