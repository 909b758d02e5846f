package di

import (
	"context"
	"fmt"
	"time"

	"MagIntel/internal/domain/repository"
	"MagIntel/internal/handler/api"
	internalrepo "MagIntel/internal/repository"
	"MagIntel/internal/services/bucket"
	"MagIntel/internal/services/signal"
	"MagIntel/internal/usecase"
	"MagIntel/pkg/cache"
	pkgch "MagIntel/pkg/clickhouse"
	"MagIntel/pkg/config"
	pkgkafka "MagIntel/pkg/kafka"
	xlogger "MagIntel/pkg/logger"
	"MagIntel/pkg/metrics"
	"MagIntel/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return xlogger.New(&xlogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideMarketStore creates the ClickHouse market store and verifies the
// feed schema before anything reads from it.
func ProvideMarketStore(chClient *pkgch.Client) (*internalrepo.ClickHouseMarketStore, error) {
	store := internalrepo.NewClickHouseMarketStore(chClient.DB())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.VerifySchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvidePriceFeed exposes the store as the price feed.
func ProvidePriceFeed(store *internalrepo.ClickHouseMarketStore) repository.PriceFeed {
	return store
}

// ProvideForwardReturnFeed exposes the store as the forward-return feed.
func ProvideForwardReturnFeed(store *internalrepo.ClickHouseMarketStore) repository.ForwardReturnFeed {
	return store
}

// ProvideSentimentFeed exposes the store as the sentiment feed.
func ProvideSentimentFeed(store *internalrepo.ClickHouseMarketStore) repository.SentimentFeed {
	return store
}

// ProvideBarWriter exposes the store as the bar ingestion sink.
func ProvideBarWriter(store *internalrepo.ClickHouseMarketStore) repository.BarWriter {
	return store
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
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

// ProvideEntryPublisher creates the Kafka entry event publisher.
func ProvideEntryPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaEntryPublisher(producer, cfg.Kafka.EntriesTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(bars repository.BarWriter, cacheSvc cache.Service, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.BarsTopic, bars, cacheSvc, m)
}

// ProvideCache creates the signal memoization cache: layered Redis-backed
// when enabled, in-process otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideEngineConfig maps YAML settings onto the engine, falling back to
// the canonical policies where the file leaves fields zero.
func ProvideEngineConfig(cfg *config.Config) usecase.EngineConfig {
	bucketCfg := bucket.Config{
		MinObs:    cfg.Engine.Bucket.MinObs,
		MaxWindow: cfg.Engine.Bucket.MaxWindow,
		Features: bucket.FeatureConfig{
			CorridorWindow: cfg.Engine.Features.CorridorWindow,
			ZScoreWindow:   cfg.Engine.Features.ZScoreWindow,
			TrendWindow:    cfg.Engine.Features.TrendWindow,
			VolWindow:      cfg.Engine.Features.VolWindow,
			VolRankWindow:  cfg.Engine.Features.VolRankWindow,
			VolCapQuantile: cfg.Engine.Features.VolCapQuantile,
		},
	}

	s0 := signal.S0Policy{LongMax: cfg.Engine.S0.LongMax, OverMin: cfg.Engine.S0.OverMin}
	if s0 == (signal.S0Policy{}) {
		s0 = signal.DefaultS0Policy()
	}
	s1 := signal.S1Policy{
		MomBucketMin: cfg.Engine.S1.MomBucketMin,
		MomBucketMax: cfg.Engine.S1.MomBucketMax,
		RevBucketMin: cfg.Engine.S1.RevBucketMin,
		RevBucketMax: cfg.Engine.S1.RevBucketMax,
	}
	if s1 == (signal.S1Policy{}) {
		s1 = signal.DefaultS1Policy()
	}

	return usecase.EngineConfig{
		Tickers:  cfg.Engine.Tickers,
		Bucket:   bucketCfg,
		S0:       s0,
		S1:       s1,
		Workers:  cfg.Engine.Workers,
		Timeout:  cfg.Engine.Timeout,
		CacheTTL: cfg.Research.CacheTTL.Signals,
	}
}

// ProvideSignalEngine creates the production signal engine.
func ProvideSignalEngine(
	engineCfg usecase.EngineConfig,
	prices repository.PriceFeed,
	publisher repository.Publisher,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *xlogger.Logger,
) (*usecase.SignalEngine, error) {
	return usecase.NewSignalEngine(engineCfg, prices, publisher, cacheSvc, m, logger)
}

// ProvideResearchUseCase creates the research lineage use case.
func ProvideResearchUseCase(
	engine *usecase.SignalEngine,
	fwd repository.ForwardReturnFeed,
	sentiment repository.SentimentFeed,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.ResearchUseCase {
	return usecase.NewResearchUseCase(engine, fwd, sentiment, cacheSvc, m, logger,
		cfg.Research.SentimentSource, cfg.Research.CacheTTL.Evidence)
}

// ProvideSignalsHandler creates the signals HTTP handler.
func ProvideSignalsHandler(logger *xlogger.Logger, engine *usecase.SignalEngine, store *internalrepo.ClickHouseMarketStore) *api.SignalsEchoHandler {
	return api.NewSignalsEchoHandler(logger, engine, store)
}

// ProvideResearchHandler creates the research HTTP handler.
func ProvideResearchHandler(logger *xlogger.Logger, research *usecase.ResearchUseCase) *api.ResearchEchoHandler {
	return api.NewResearchEchoHandler(logger, research)
}

// ProvideRouter combines the API handlers.
func ProvideRouter(signals *api.SignalsEchoHandler, research *api.ResearchEchoHandler) *api.Router {
	return api.NewRouter(signals, research)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	engine *usecase.SignalEngine,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	chClient *pkgch.Client,
	publisher repository.Publisher,
	router *api.Router,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, engine, consumer, kh, chClient, publisher)
	app.SetHTTPHandler(router)
	return app
}
