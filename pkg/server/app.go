package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FinDeck/internal/jobs"
	"FinDeck/internal/ledger"
	"FinDeck/internal/usecase"
	pkgch "FinDeck/pkg/clickhouse"
	"FinDeck/pkg/config"
	xhttp "FinDeck/pkg/http"
	pkgkafka "FinDeck/pkg/kafka"
	applogger "FinDeck/pkg/logger"
	"FinDeck/pkg/queue"

	"github.com/labstack/echo/v4"
)

// handlerGroup registers a set of handlers on one Echo instance.
type handlerGroup []xhttp.Handler

func (g handlerGroup) RegisterRoutes(e *echo.Echo) {
	for _, h := range g {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	registry *ledger.Registry

	collector *usecase.QuoteCollector
	consumer  *pkgkafka.Consumer
	kh        pkgkafka.MessageHandler
	chClient  *pkgch.Client

	refreshQueue *queue.RedisQueue
	scheduler    *jobs.Scheduler

	httpServer *xhttp.Server
	handlers   handlerGroup
}

// New creates a new App instance with all dependencies. Stream, consumer,
// ClickHouse, and queue components are optional; nil disables them.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	registry *ledger.Registry,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	refreshQueue *queue.RedisQueue,
	scheduler *jobs.Scheduler,
) *App {
	return &App{
		cfg:          cfg,
		log:          log,
		registry:     registry,
		collector:    collector,
		consumer:     consumer,
		kh:           kh,
		chClient:     chClient,
		refreshQueue: refreshQueue,
		scheduler:    scheduler,
	}
}

// AddHandler registers an HTTP handler to be mounted on the server.
func (a *App) AddHandler(h xhttp.Handler) {
	a.handlers = append(a.handlers, h)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log

	a.httpServer = xhttp.NewServer(a.handlers,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	a.httpServer.Echo().GET("/healthz", a.healthHandler)

	// Start the live quote collector when a stream is configured
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start refresh queue workers and their scheduler
	if a.refreshQueue != nil {
		if err := a.refreshQueue.Start(); err != nil {
			l.Error("refresh queue start error", applogger.Error(err))
		} else if a.scheduler != nil {
			a.scheduler.Start(ctx)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.log
	l.Info("shutting down...")

	// Stop periodic refresh first so nothing new is enqueued
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Stop collector (pipeline + stream) and its backend resources
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
		if proc := a.collector.Processor(); proc != nil {
			proc.Close()
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop queue workers
	if a.refreshQueue != nil {
		if err := a.refreshQueue.Stop(shutdownCtx); err != nil {
			l.Warn("refresh queue stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop session eviction
	if a.registry != nil {
		a.registry.Close()
	}

	l.Info("shutdown complete")
	return nil
}

// healthHandler reports process liveness and configured backends.
func (a *App) healthHandler(c echo.Context) error {
	status := map[string]any{
		"status":  "ok",
		"backend": a.cfg.Backend.Type,
		"stream":  a.collector != nil,
	}
	if a.chClient != nil {
		if err := a.chClient.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["clickhouse"] = err.Error()
		} else {
			status["clickhouse"] = "ok"
		}
	}
	return c.JSON(200, status)
}
