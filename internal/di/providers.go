package di

import (
	"context"
	"fmt"
	"time"

	"FinDeck/internal/domain/repository"
	"FinDeck/internal/handler/api"
	"FinDeck/internal/jobs"
	"FinDeck/internal/ledger"
	mid "FinDeck/internal/middleware"
	internalrepo "FinDeck/internal/repository"
	icache "FinDeck/internal/service/cache"
	"FinDeck/internal/service/eodhd"
	"FinDeck/internal/service/fred"
	"FinDeck/internal/service/news"
	"FinDeck/internal/service/quotes"
	"FinDeck/internal/service/stream"
	"FinDeck/internal/usecase"
	"FinDeck/pkg/cache"
	pkgch "FinDeck/pkg/clickhouse"
	"FinDeck/pkg/config"
	pkgkafka "FinDeck/pkg/kafka"
	applogger "FinDeck/pkg/logger"
	"FinDeck/pkg/metrics"
	"FinDeck/pkg/queue"
	"FinDeck/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideClickHouseClient creates a ClickHouse client and initializes
// schema. Nil when no host is configured; history then falls back to the
// REST provider and quote persistence is unavailable.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + quoteTable(cfg) +
			" (ts DateTime64(3), symbol String, price Float64, volume Float64, source String, event_id String)" +
			" ENGINE=ReplacingMergeTree ORDER BY (symbol, ts, event_id)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func quoteTable(cfg *config.Config) string {
	table := cfg.Backend.Table
	if table == "" {
		table = "quotes"
	}
	return cfg.ClickHouse.Database + "." + table
}

// ProvideKafkaProducer creates a Kafka producer. Nil when the backend
// persists directly to ClickHouse.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideQuoteStorage creates ClickHouse storage repository. Nil when
// ClickHouse is not configured.
func ProvideQuoteStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseStorage(chClient.DB(), quoteTable(cfg))
}

// ProvideQuotePublisher creates Kafka publisher repository.
func ProvideQuotePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
// Nil when the kafka backend is not selected.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
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

// ProvideKafkaQuotesHandler registers handler for the quotes topic.
func ProvideKafkaQuotesHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaQuotesHandler {
	return usecase.NewKafkaQuotesHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideMarketStream creates the WebSocket quote stream. Nil disables
// live ingestion and the app serves REST-sourced data only.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
	)
}

// ProvideLiveQuotes creates the in-memory last-quote cache.
func ProvideLiveQuotes(cfg *config.Config) *quotes.Cache {
	maxAge := cfg.Analytics.QuoteMaxAge
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	return quotes.NewCache(maxAge)
}

// ProvideQuoteProcessor creates the quote processor use case.
func ProvideQuoteProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.QuoteProcessor {
	return usecase.NewQuoteProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideQuoteCollector creates the quote collector use case.
func ProvideQuoteCollector(
	stream repository.MarketStream,
	processor *usecase.QuoteProcessor,
	live *quotes.Cache,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.QuoteCollector {
	if stream == nil {
		return nil
	}
	maxRPS := cfg.Stream.MaxRPS
	if maxRPS <= 0 {
		maxRPS = 50
	}
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(maxRPS),
		mid.WithBufferSize(2000),
	)
	return usecase.NewQuoteCollector(stream, processor, live, metrics, pipe)
}

// ProvideEODHD creates the EODHD REST client.
func ProvideEODHD(cfg *config.Config, log *applogger.Logger) *eodhd.Client {
	return eodhd.New(cfg.EODHD.APIKey, cfg.EODHD.BaseURL, cfg.EODHD.Timeout, cfg.EODHD.RequestsPerSec, log)
}

// ProvideQuoteSource layers the live cache over the REST fallback.
func ProvideQuoteSource(live *quotes.Cache, rest *eodhd.Client, log *applogger.Logger) repository.QuoteSource {
	return quotes.NewService(live, rest, log)
}

// ProvidePriceHistorySource layers ingested ClickHouse closes over EODHD.
// A nil ClickHouse client degrades to REST only.
func ProvidePriceHistorySource(chClient *pkgch.Client, rest *eodhd.Client, cfg *config.Config, log *applogger.Logger) repository.PriceHistorySource {
	if chClient == nil {
		return rest
	}
	local := internalrepo.NewCHPriceStore(chClient, quoteTable(cfg))
	local.SetLogger(log)
	return internalrepo.NewLayeredHistorySource(local, rest, log)
}

// ProvideRateSource creates the FRED client.
func ProvideRateSource(cfg *config.Config, log *applogger.Logger) repository.RateSource {
	return fred.New(cfg.FRED.APIKey, cfg.FRED.BaseURL, cfg.FRED.Timeout, log)
}

// ProvideNewsSource creates the headlines client.
func ProvideNewsSource(cfg *config.Config, log *applogger.Logger) repository.NewsSource {
	return news.New(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Timeout, log)
}

// ProvideRedisCache dials Redis when the cache backend enables it.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService builds the dashboard cache, layered over Redis when
// available and in-memory otherwise.
func ProvideCacheService(cfg *config.Config, rc *cache.RedisCache) cache.Service {
	memSize := cfg.Cache.MemorySize
	if memSize <= 0 {
		memSize = 1000
	}
	if rc == nil {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(memSize))
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(memSize))
}

// ProvideRegistry creates the session ledger registry.
func ProvideRegistry(cfg *config.Config) *ledger.Registry {
	ttl := cfg.Session.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	sweep := cfg.Session.SweepInterval
	if sweep <= 0 {
		sweep = 10 * time.Minute
	}
	return ledger.NewRegistry(ttl, sweep)
}

// ProvidePerformanceUsecase wires analytics constants from config.
func ProvidePerformanceUsecase(
	recon *usecase.ReconstructUsecase,
	metrics repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.PerformanceUsecase {
	return usecase.NewPerformanceUsecase(recon, cfg.Analytics.RiskFreeRate, cfg.AnnualizationBase(), metrics, log)
}

// ProvideDashboardUsecase wires rate, spread, and news providers with caching.
func ProvideDashboardUsecase(
	rates repository.RateSource,
	news repository.NewsSource,
	svc cache.Service,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.DashboardUsecase {
	rateTTL := cfg.Dashboard.RatesTTL
	if rateTTL <= 0 {
		rateTTL = 6 * time.Hour
	}
	newsTTL := cfg.Dashboard.NewsTTL
	if newsTTL <= 0 {
		newsTTL = 30 * time.Minute
	}
	pageSize := cfg.News.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}
	return usecase.NewDashboardUsecase(rates, news, svc, rateTTL, newsTTL, pageSize, log)
}

// ProvideMarketHandler attaches a byte cache for history responses.
func ProvideMarketHandler(log *applogger.Logger, market *usecase.MarketUsecase, rc *cache.RedisCache) *api.MarketHandler {
	h := api.NewMarketHandler(log, market)
	if rc != nil {
		h.SetCache(icache.NewRedisCacheFromClient(rc.Client()))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideRefreshQueue builds the Redis-backed refresh worker queue.
// Without Redis the queue is disabled and the dashboard falls back to
// request-path cache fills.
func ProvideRefreshQueue(
	cfg *config.Config,
	rc *cache.RedisCache,
	dash *usecase.DashboardUsecase,
	log *applogger.Logger,
) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rc == nil {
		return nil
	}
	qcfg := &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}
	return queue.NewRedisConsumer(log, qcfg, rc.Client(), []queue.Job{
		jobs.NewRefreshRatesJob(dash, log),
		jobs.NewRefreshSpreadsJob(dash, log),
		jobs.NewRefreshNewsJob(dash, log),
	})
}

// ProvideScheduler creates the periodic refresh scheduler.
func ProvideScheduler(cfg *config.Config, q *queue.RedisQueue, log *applogger.Logger) *jobs.Scheduler {
	if q == nil {
		return nil
	}
	return jobs.NewScheduler(q, cfg.Queue.RefreshInterval, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	registry *ledger.Registry,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaQuotesHandler,
	chClient *pkgch.Client,
	refreshQueue *queue.RedisQueue,
	scheduler *jobs.Scheduler,
	portfolio *api.PortfolioHandler,
	market *api.MarketHandler,
	dashboard *api.DashboardHandler,
) *server.App {
	var mh pkgkafka.MessageHandler
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
		mh = kh
	}
	app := server.New(cfg, log, registry, collector, consumer, mh, chClient, refreshQueue, scheduler)
	app.AddHandler(portfolio)
	app.AddHandler(market)
	app.AddHandler(dashboard)
	return app
}
