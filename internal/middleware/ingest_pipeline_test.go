package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"LiqWatch/internal/domain/models"
)

type pipeMetrics struct{}

func (pipeMetrics) RecordEventIngested(string, string) {}
func (pipeMetrics) RecordError(string)                 {}
func (pipeMetrics) RecordLastPrice(string, float64)    {}
func (pipeMetrics) RecordActiveSymbols(int)            {}
func (pipeMetrics) RecordLatency(string, float64)      {}

// flakyProc fails its first flushes, then starts succeeding.
type flakyProc struct {
	mu        sync.Mutex
	failures  int
	succeeded []string
}

func (p *flakyProc) Process(ctx context.Context, _ string, ev *models.LiquidationEvent) error {
	return p.Flush(ctx, ev.Symbol)
}

func (p *flakyProc) Flush(_ context.Context, symbol string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("mirror down")
	}
	p.succeeded = append(p.succeeded, symbol)
	return nil
}

func (p *flakyProc) flushed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.succeeded...)
}

func TestPipelineReplaysFailedFlush(t *testing.T) {
	proc := &flakyProc{failures: 2}
	pipe := NewIngestPipeline(proc, pipeMetrics{}, WithBufferSize(8))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pipe.Start(ctx)
	defer pipe.Stop()

	ev := &models.LiquidationEvent{Symbol: "BTCUSDT", Side: models.SideSell, Price: 1, Quantity: 1, Value: 1, EventTime: 1700000000000}
	if err := pipe.Process(ctx, "feed", ev); err == nil {
		t.Fatalf("expected downstream error on first attempt")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := proc.flushed(); len(got) == 1 && got[0] == "BTCUSDT" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("flush never replayed, got %v", proc.flushed())
}

func TestPipelineRejectsInvalidEvents(t *testing.T) {
	proc := &flakyProc{}
	pipe := NewIngestPipeline(proc, pipeMetrics{})

	bad := []*models.LiquidationEvent{
		nil,
		{Symbol: "", EventTime: 1},
		{Symbol: "X", EventTime: 0},
		{Symbol: "X", EventTime: 1, Price: -1},
	}
	for _, ev := range bad {
		if err := pipe.Process(context.Background(), "relay", ev); err == nil {
			t.Fatalf("expected validation error for %+v", ev)
		}
	}
	if len(proc.flushed()) != 0 {
		t.Fatalf("invalid events must not reach the processor")
	}
}
