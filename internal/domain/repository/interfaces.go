package repository

import (
	"context"

	"LiqWatch/internal/domain/models"
)

// LiquidationStream is an owned connection handle to a liquidation feed.
// Read delivers raw frames; decoding is the caller's concern so that a
// malformed message can be dropped without touching the connection.
type LiquidationStream interface {
	Connect(ctx context.Context) error
	Read(ctx context.Context) (<-chan []byte, <-chan error)
	Close() error
	IsConnected() bool
}

// EventMirror keeps the external store's contents a faithful serialization
// of the windowed store and the active-symbol registry.
type EventMirror interface {
	SaveWindow(ctx context.Context, symbol string, events []models.LiquidationEvent) error
	DeleteWindow(ctx context.Context, symbol string) error
	LoadWindow(ctx context.Context, symbol string) ([]models.LiquidationEvent, error)
	LoadWindows(ctx context.Context, symbols []string) (map[string][]models.LiquidationEvent, error)
	SaveActiveSymbols(ctx context.Context, symbols []string) error
	LoadActiveSymbols(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher fans ingested events out to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.LiquidationEvent) error
	Close() error
}

type Metrics interface {
	RecordEventIngested(source, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordActiveSymbols(n int)
	RecordLatency(op string, seconds float64)
}
