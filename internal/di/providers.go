package di

import (
	"fmt"
	"time"

	"LiqWatch/internal/domain/repository"
	"LiqWatch/internal/handler/api"
	"LiqWatch/internal/handler/relay"
	mid "LiqWatch/internal/middleware"
	internalrepo "LiqWatch/internal/repository"
	"LiqWatch/internal/service/binance"
	"LiqWatch/internal/store"
	"LiqWatch/internal/usecase"
	"LiqWatch/pkg/cache"
	"LiqWatch/pkg/config"
	xhttp "LiqWatch/pkg/http"
	pkgkafka "LiqWatch/pkg/kafka"
	applogger "LiqWatch/pkg/logger"
	"LiqWatch/pkg/metrics"
	"LiqWatch/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRedisCache creates the Redis cache client.
func ProvideRedisCache(cfg *config.Config) (cache.Service, error) {
	kv, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.PoolSize/2, 5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return kv, nil
}

// ProvideMirror creates the Redis-backed event mirror.
func ProvideMirror(kv cache.Service) repository.EventMirror {
	return internalrepo.NewRedisMirror(kv)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when fan-out is
// not configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the Kafka event publisher, or nil when
// no producer is configured.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRegistry creates the active symbol registry.
func ProvideRegistry() *store.ActiveSymbolRegistry {
	return store.NewActiveSymbolRegistry()
}

// ProvideStore creates the windowed event store.
func ProvideStore(cfg *config.Config, registry *store.ActiveSymbolRegistry) *store.WindowedStore {
	return store.NewWindowedStore(cfg.Window.Duration, registry)
}

// ProvideBinanceStream creates the Binance forced-liquidation stream.
func ProvideBinanceStream(cfg *config.Config) repository.LiquidationStream {
	return binance.New(cfg.Binance.WebSocketURL, cfg.Binance.PingInterval)
}

// ProvideProcessor creates the event processor use case.
func ProvideProcessor(
	st *store.WindowedStore,
	mirror repository.EventMirror,
	publisher repository.EventPublisher,
	metrics repository.Metrics,
	logger *applogger.Logger,
) *usecase.EventProcessor {
	return usecase.NewEventProcessor(st, mirror, publisher, metrics, logger)
}

// ProvidePipeline creates the ingest pipeline between the feeds and the
// processor.
func ProvidePipeline(proc *usecase.EventProcessor, metrics repository.Metrics) *mid.IngestPipeline {
	return mid.NewIngestPipeline(proc, metrics,
		mid.WithBufferSize(2000),
	)
}

// ProvideCollector creates the liquidation feed collector.
func ProvideCollector(
	stream repository.LiquidationStream,
	pipe *mid.IngestPipeline,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.LiquidationCollector {
	return usecase.NewLiquidationCollector(stream, pipe, metrics, logger, cfg.Binance.ReconnectDelay)
}

// ProvideJanitor creates the periodic window sweeper.
func ProvideJanitor(
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	mirror repository.EventMirror,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Janitor {
	return usecase.NewJanitor(st, registry, mirror, metrics, logger, cfg.Window.SweepInterval)
}

// ProvideQueryService creates the read-side query service.
func ProvideQueryService(
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	mirror repository.EventMirror,
) *usecase.QueryService {
	return usecase.NewQueryService(st, registry, mirror)
}

// ProvideHandlers groups the REST and relay WebSocket handlers.
func ProvideHandlers(
	logger *applogger.Logger,
	query *usecase.QueryService,
	pipe *mid.IngestPipeline,
	metrics repository.Metrics,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewLiquidationsEchoHandler(logger, query),
		relay.NewHandler(logger, pipe, metrics),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	st *store.WindowedStore,
	registry *store.ActiveSymbolRegistry,
	mirror repository.EventMirror,
	collector *usecase.LiquidationCollector,
	janitor *usecase.Janitor,
	handler xhttp.Handler,
	publisher repository.EventPublisher,
	producer *pkgkafka.Producer,
) *server.App {
	app := server.New(cfg, logger, st, registry, mirror, collector, janitor, handler)
	if publisher != nil {
		app.SetPublisher(publisher)
	}
	if producer != nil {
		app.SetProducer(producer)
	}
	return app
}
