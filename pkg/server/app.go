package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/store"
	"LiqWatch/internal/usecase"
	"LiqWatch/pkg/config"
	xhttp "LiqWatch/pkg/http"
	pkgkafka "LiqWatch/pkg/kafka"
	applogger "LiqWatch/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	store      *store.WindowedStore
	registry   *store.ActiveSymbolRegistry
	mirror     domrepo.EventMirror
	collector  *usecase.LiquidationCollector
	janitor    *usecase.Janitor
	publisher  domrepo.EventPublisher
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
	handler    xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	mirror domrepo.EventMirror,
	collector *usecase.LiquidationCollector,
	janitor *usecase.Janitor,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		registry:  registry,
		mirror:    mirror,
		collector: collector,
		janitor:   janitor,
		handler:   handler,
	}
}

// SetPublisher injects the optional Kafka event publisher.
func (a *App) SetPublisher(p domrepo.EventPublisher) { a.publisher = p }

// SetProducer injects the optional Kafka producer used for log fan-out.
func (a *App) SetProducer(p *pkgkafka.Producer) { a.producer = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	// Aggregated error logs go to Kafka when a producer is configured.
	if a.producer != nil && a.cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      a.producer,
		})
	}

	// Rebuild in-memory windows from the mirror before ingesting. A cold
	// mirror is not fatal; the windows refill from the live feed.
	restoreCtx, restoreCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := usecase.RestoreFromMirror(restoreCtx, a.mirror, a.store, a.registry, l); err != nil {
		l.Warn("mirror restore failed", applogger.Error(err))
	}
	restoreCancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsLogger(l, 500*time.Millisecond),
	)

	// Collector.Start also starts the ingest pipeline.
	a.collector.Start(ctx)
	l.Info("collector started", applogger.String("url", a.cfg.Binance.WebSocketURL))

	a.janitor.Start(ctx)
	l.Info("janitor started", applogger.Duration("interval", a.cfg.Window.SweepInterval))

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(cancel)
}

// shutdown gracefully stops all services. The run context must be
// cancelled before Collector.Shutdown so the consume loop can exit.
func (a *App) shutdown(cancel context.CancelFunc) error {
	l := a.logger
	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer ctxCancel()

	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	a.janitor.Stop()

	if err := a.httpServer.Stop(ctx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Flush aggregated logs before the producer goes away.
	l.RemoveCollector()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if err := a.mirror.Close(); err != nil {
		l.Warn("mirror close error", applogger.Error(err))
	}

	l.Info("shutdown complete")
	return nil
}
