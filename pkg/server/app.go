package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPilot/internal/usecase"
	pkgch "StockPilot/pkg/clickhouse"
	"StockPilot/pkg/config"
	xhttp "StockPilot/pkg/http"
	pkgkafka "StockPilot/pkg/kafka"
	applogger "StockPilot/pkg/logger"
	"StockPilot/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg            *config.Config
	logger         *applogger.Logger
	routes         xhttp.Handler
	consumer       *pkgkafka.Consumer
	sink           *usecase.PredictionSink
	jobs           *queue.RedisQueue
	training       *usecase.TrainingUseCase
	streamConsumer *usecase.StreamConsumer
	producer       *pkgkafka.Producer
	chClient       *pkgch.Client
	httpServer     *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	routes xhttp.Handler,
	consumer *pkgkafka.Consumer,
	sink *usecase.PredictionSink,
	jobs *queue.RedisQueue,
	training *usecase.TrainingUseCase,
	streamConsumer *usecase.StreamConsumer,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:            cfg,
		logger:         logger,
		routes:         routes,
		consumer:       consumer,
		sink:           sink,
		jobs:           jobs,
		training:       training,
		streamConsumer: streamConsumer,
		producer:       producer,
		chClient:       chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	if a.jobs != nil {
		if err := a.jobs.Start(); err != nil {
			l.Error("training queue start failed", applogger.Error(err))
			return err
		}
		l.Info("training queue started")

		// Error logs fan in through the queue for offline inspection.
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "stockpilot.logs",
			Publisher:      a.jobs,
		})
	}

	if a.consumer != nil && a.sink != nil {
		a.consumer.RegisterHandler(a.sink)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.sink.Topic()))
	}

	if a.streamConsumer != nil {
		go a.streamConsumer.Run(ctx)
		l.Info("quote stream started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	a.httpServer = xhttp.NewServer(a.routes,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// TrainSymbol runs one training pass synchronously. Used by the train
// command where no server is started.
func (a *App) TrainSymbol(ctx context.Context, symbol string) (map[string]float64, error) {
	return a.training.Train(ctx, symbol)
}

// Close releases infrastructure clients without going through the
// server lifecycle.
func (a *App) Close() error {
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	l := a.logger
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			l.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.jobs != nil {
		l.RemoveCollector()
		if err := a.jobs.Stop(ctx); err != nil {
			l.Warn("training queue stop error", applogger.Error(err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
