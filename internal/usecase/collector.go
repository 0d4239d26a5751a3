package usecase

import (
	"context"
	"time"

	"LiqWatch/internal/domain/models"
	drepo "LiqWatch/internal/domain/repository"
	mid "LiqWatch/internal/middleware"
	applogger "LiqWatch/pkg/logger"
)

// SourceFeed and SourceRelay label the two ingestion paths in logs and
// metrics.
const (
	SourceFeed  = "feed"
	SourceRelay = "relay"
)

// LiquidationCollector drives the upstream feed connection:
// disconnected -> connecting -> connected -> disconnected, forever, with
// a fixed delay before every reconnect. Only the close of a connection
// schedules a reconnect; a read error merely causes the close.
type LiquidationCollector struct {
	stream         drepo.LiquidationStream
	pipe           *mid.IngestPipeline
	metrics        drepo.Metrics
	logger         *applogger.Logger
	reconnectDelay time.Duration
	done           chan struct{}
}

func NewLiquidationCollector(
	stream drepo.LiquidationStream,
	pipe *mid.IngestPipeline,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	reconnectDelay time.Duration,
) *LiquidationCollector {
	return &LiquidationCollector{
		stream:         stream,
		pipe:           pipe,
		metrics:        metrics,
		logger:         logger,
		reconnectDelay: reconnectDelay,
		done:           make(chan struct{}),
	}
}

// IsConnected returns true if the feed connection is up.
func (c *LiquidationCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start launches the connect/consume/reconnect loop.
func (c *LiquidationCollector) Start(ctx context.Context) {
	c.pipe.Start(ctx)
	go c.run(ctx)
}

func (c *LiquidationCollector) run(ctx context.Context) {
	defer close(c.done)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.stream.Connect(ctx); err != nil {
			c.metrics.RecordError("stream_connect")
			c.logger.Error("feed connect failed", applogger.Error(err))
			if !c.wait(ctx) {
				return
			}
			continue
		}
		c.logger.Info("feed connected")

		c.consume(ctx)
		if err := c.stream.Close(); err != nil {
			c.logger.Warn("feed close error", applogger.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
		c.logger.Info("feed disconnected, reconnecting",
			applogger.Duration("delay", c.reconnectDelay))
		if !c.wait(ctx) {
			return
		}
	}
}

// consume reads frames until the connection is lost. One consume exit
// maps to exactly one reconnect wait in run, so an error followed by the
// close never schedules two reconnects.
func (c *LiquidationCollector) consume(ctx context.Context) {
	frames, errs := c.stream.Read(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			if err != nil {
				c.metrics.RecordError("stream_read")
				c.logger.Error("feed read error", applogger.Error(err))
			}
			return
		case b, ok := <-frames:
			if !ok {
				return
			}
			c.handle(ctx, b)
		}
	}
}

// handle decodes and forwards one frame. Malformed payloads are dropped
// with a warning; they never bring the connection down.
func (c *LiquidationCollector) handle(ctx context.Context, raw []byte) {
	ev, err := models.DecodeEvent(raw)
	if err != nil {
		c.metrics.RecordError("decode")
		c.logger.Warn("dropping malformed feed message", applogger.Error(err))
		return
	}
	if ev == nil {
		// not a liquidation payload
		return
	}
	if err := c.pipe.Process(ctx, SourceFeed, ev); err != nil {
		c.logger.Warn("event processing degraded",
			applogger.String("symbol", ev.Symbol), applogger.Error(err))
	}
}

// wait sleeps the fixed reconnect delay. Returns false when the context
// was cancelled first, so shutdown never leaks a pending reconnect.
func (c *LiquidationCollector) wait(ctx context.Context) bool {
	t := time.NewTimer(c.reconnectDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Shutdown stops the pipeline, closes the stream, and waits for the run
// loop to exit.
func (c *LiquidationCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	err := c.stream.Close()
	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return err
}
