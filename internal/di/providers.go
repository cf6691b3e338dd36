package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	drepo "StockPilot/internal/domain/repository"
	dsvc "StockPilot/internal/domain/service"
	"StockPilot/internal/handler/api"
	internalrepo "StockPilot/internal/repository"
	"StockPilot/internal/service/marketdata"
	"StockPilot/internal/service/news"
	"StockPilot/internal/service/stream"
	"StockPilot/internal/services/forecast"
	"StockPilot/internal/usecase"
	"StockPilot/pkg/cache"
	pkgch "StockPilot/pkg/clickhouse"
	"StockPilot/pkg/config"
	xhttp "StockPilot/pkg/http"
	pkgkafka "StockPilot/pkg/kafka"
	xlogger "StockPilot/pkg/logger"
	"StockPilot/pkg/metrics"
	"StockPilot/pkg/queue"
	"StockPilot/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	format := "json"
	if cfg.Logging.Pretty {
		format = "console"
	}
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: format,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideZerolog exposes the underlying zerolog logger for services
// that log directly.
func ProvideZerolog(l *xlogger.Logger) zerolog.Logger {
	return l.Zerolog()
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the
// schema. Returns nil when ClickHouse is disabled; the engine then
// refetches history on every request and keeps no prediction log.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
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

	statements := []string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database}
	statements = append(statements, internalrepo.BarSchema...)
	statements = append(statements, internalrepo.PredictionSchema...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, statements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisCache creates the shared Redis cache client, or nil when
// Redis is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCache builds the response cache. With Redis available it is a
// layered memory-over-Redis cache, otherwise memory only.
func ProvideCache(cfg *config.Config, rc *cache.RedisCache) cache.Service {
	if rc == nil {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
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

// ProvideKafkaConsumer creates the prediction topic consumer, or nil
// when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
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

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvidePriceStore creates the ClickHouse bar repository.
func ProvidePriceStore(chClient *pkgch.Client) drepo.PriceStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHousePriceStore(chClient.DB())
}

// ProvidePredictionStore creates the ClickHouse prediction log.
func ProvidePredictionStore(chClient *pkgch.Client) drepo.PredictionStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHousePredictionStore(chClient.DB())
}

// ProvidePublisher creates the Kafka prediction publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideModelStore creates the model artifact store.
func ProvideModelStore(cfg *config.Config) *forecast.Store {
	return forecast.NewStore(cfg.Models.Dir)
}

// ProvideMarketData creates the Yahoo Finance client.
func ProvideMarketData(cfg *config.Config, log zerolog.Logger) dsvc.MarketData {
	return marketdata.NewClient(cfg.MarketData.RequestsPerMinute, log)
}

// ProvideNews creates the RSS headline client.
func ProvideNews(cfg *config.Config, log zerolog.Logger) dsvc.NewsSource {
	return news.NewClient(cfg.News.FeedURL, cfg.News.Timeout, log)
}

// ProvideQuoteStream creates the WebSocket quote stream, or nil when
// streaming is disabled.
func ProvideQuoteStream(cfg *config.Config, log zerolog.Logger) drepo.QuoteStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.URL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		log,
	)
}

// ProvideQuoteBook creates the in-memory last quote book.
func ProvideQuoteBook() *usecase.QuoteBook {
	return usecase.NewQuoteBook()
}

// ProvideTrainingQueue creates the Redis job queue that serializes
// training runs. Nil when Redis is disabled; training then runs inline.
func ProvideTrainingQueue(lgr *xlogger.Logger, cfg *config.Config, rc *cache.RedisCache) *queue.RedisQueue {
	if rc == nil {
		return nil
	}
	workers := cfg.Models.TrainWorkers
	if workers <= 0 {
		workers = 1
	}
	return queue.NewRedisQueue(
		lgr,
		&queue.QueueConfig{
			Workers:    workers,
			QueueSize:  64,
			RetryLimit: 1,
			RetryDelay: 30 * time.Second,
		},
		rc.Client(),
		queue.ModeProducerConsumer,
		queue.WithKeyPrefix("stockpilot:queue"),
	)
}

// ProvideTradingStore creates the Postgres paper trading store, or nil
// when trading is disabled.
func ProvideTradingStore(cfg *config.Config) (drepo.TradingStore, error) {
	if !cfg.Trading.Enabled {
		return nil, nil
	}
	store, err := internalrepo.NewPostgresTradingStore(cfg.Trading.PostgresDSN, cfg.Trading.InitialCash)
	if err != nil {
		return nil, fmt.Errorf("trading store: %w", err)
	}
	return store, nil
}

// ProvideHistoryUseCase creates the bar history use case.
func ProvideHistoryUseCase(prices drepo.PriceStore, market dsvc.MarketData, log zerolog.Logger) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(prices, market, log)
}

// ProvidePredictionUseCase creates the forecast use case.
func ProvidePredictionUseCase(
	cfg *config.Config,
	history *usecase.HistoryUseCase,
	modelStore *forecast.Store,
	publisher drepo.Publisher,
	store drepo.PredictionStore,
	cacheSvc cache.Service,
	m drepo.Metrics,
	log zerolog.Logger,
) *usecase.PredictionUseCase {
	return usecase.NewPredictionUseCase(history, modelStore, publisher, store, cacheSvc, cfg.Cache.PredictionTTL, m, log)
}

// ProvideAnalysisUseCase creates the analysis use case.
func ProvideAnalysisUseCase(
	cfg *config.Config,
	history *usecase.HistoryUseCase,
	market dsvc.MarketData,
	newsSource dsvc.NewsSource,
	cacheSvc cache.Service,
	m drepo.Metrics,
	log zerolog.Logger,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(history, market, newsSource, cacheSvc, cfg.Cache.AnalysisTTL, m, log)
}

// ProvideTrainingUseCase creates the training use case.
func ProvideTrainingUseCase(
	history *usecase.HistoryUseCase,
	modelStore *forecast.Store,
	jobs *queue.RedisQueue,
	m drepo.Metrics,
	log zerolog.Logger,
) *usecase.TrainingUseCase {
	return usecase.NewTrainingUseCase(history, modelStore, jobs, m, log)
}

// ProvideTradingUseCase creates the paper trading use case, or nil
// when trading is disabled.
func ProvideTradingUseCase(
	store drepo.TradingStore,
	market dsvc.MarketData,
	book *usecase.QuoteBook,
	log zerolog.Logger,
) *usecase.TradingUseCase {
	if store == nil {
		return nil
	}
	return usecase.NewTradingUseCase(store, market, book, log)
}

// ProvidePredictionSink creates the Kafka prediction sink, or nil when
// either Kafka or the prediction log is unavailable.
func ProvidePredictionSink(cfg *config.Config, store drepo.PredictionStore, log zerolog.Logger) *usecase.PredictionSink {
	if !cfg.Kafka.Enabled || store == nil {
		return nil
	}
	return usecase.NewPredictionSink(cfg.Kafka.Topic, store, log)
}

// ProvideStreamConsumer creates the quote stream consumer, or nil when
// streaming is disabled.
func ProvideStreamConsumer(
	quotes drepo.QuoteStream,
	book *usecase.QuoteBook,
	m drepo.Metrics,
	log zerolog.Logger,
) *usecase.StreamConsumer {
	if quotes == nil {
		return nil
	}
	return usecase.NewStreamConsumer(quotes, book, m, log)
}

// Routes registers every enabled handler on the Echo instance.
type Routes struct {
	handlers []xhttp.Handler
}

func (r *Routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}

// ProvideRoutes assembles the HTTP surface. The trading routes only
// exist when a trading store is configured.
func ProvideRoutes(
	lgr *xlogger.Logger,
	predictions *usecase.PredictionUseCase,
	analysis *usecase.AnalysisUseCase,
	history *usecase.HistoryUseCase,
	training *usecase.TrainingUseCase,
	trading *usecase.TradingUseCase,
) *Routes {
	r := &Routes{}
	r.handlers = append(r.handlers, api.NewEngineHandler(lgr, predictions, analysis, history, training))
	if trading != nil {
		r.handlers = append(r.handlers, api.NewTradingHandler(lgr, trading))
	}
	return r
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *xlogger.Logger,
	routes *Routes,
	consumer *pkgkafka.Consumer,
	sink *usecase.PredictionSink,
	jobs *queue.RedisQueue,
	training *usecase.TrainingUseCase,
	streamConsumer *usecase.StreamConsumer,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *server.App {
	if jobs != nil {
		jobs.RegisterJob(usecase.NewTrainJob(training))
	}
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewLoggingHook(lgr.Zerolog()))
	}
	return server.New(cfg, lgr, routes, consumer, sink, jobs, training, streamConsumer, producer, chClient)
}
